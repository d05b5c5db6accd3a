package config

import "github.com/tauraamui/medianstream/pkg/configdef"

type defaultSettingKey uint

const (
	MODE          defaultSettingKey = 0x0
	WRITEDEVICE   defaultSettingKey = 0x1
	READDEVICE    defaultSettingKey = 0x2
	SOURCE        defaultSettingKey = 0x3
	SOURCETITLE   defaultSettingKey = 0x4
	SINK          defaultSettingKey = 0x5
	SNAPSHOTEVERY defaultSettingKey = 0x6
)

var defaultSettings = map[defaultSettingKey]interface{}{
	MODE:          configdef.LoopbackMode,
	WRITEDEVICE:   "/dev/xillybus_write_32",
	READDEVICE:    "/dev/xillybus_read_32",
	SOURCE:        "mock",
	SOURCETITLE:   "Median Stream",
	SINK:          "discard",
	SNAPSHOTEVERY: 1,
}

func defaultValues() configdef.Values {
	return configdef.Values{
		Mode:          defaultSettings[MODE].(string),
		WriteDevice:   defaultSettings[WRITEDEVICE].(string),
		ReadDevice:    defaultSettings[READDEVICE].(string),
		Source:        defaultSettings[SOURCE].(string),
		SourceTitle:   defaultSettings[SOURCETITLE].(string),
		Sink:          defaultSettings[SINK].(string),
		SnapshotEvery: defaultSettings[SNAPSHOTEVERY].(int),
	}
}

// loadDefaults fills in anything left blank by the config file.
func loadDefaults(values *configdef.Values) {
	defaults := defaultValues()
	fill := func(dst *string, def string) {
		if len(*dst) == 0 {
			*dst = def
		}
	}
	fill(&values.Mode, defaults.Mode)
	fill(&values.WriteDevice, defaults.WriteDevice)
	fill(&values.ReadDevice, defaults.ReadDevice)
	fill(&values.Source, defaults.Source)
	fill(&values.SourceTitle, defaults.SourceTitle)
	fill(&values.Sink, defaults.Sink)
	if values.SnapshotEvery == 0 {
		values.SnapshotEvery = defaults.SnapshotEvery
	}
}
