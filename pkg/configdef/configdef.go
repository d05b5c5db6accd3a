package configdef

import (
	"errors"
	"fmt"

	"gopkg.in/dealancer/validate.v2"
)

const (
	LoopbackMode = "loopback"
	DeviceMode   = "device"
)

type Values struct {
	Mode              string `json:"mode" validate:"one_of=loopback,device"`
	WriteDevice       string `json:"write_device"`
	ReadDevice        string `json:"read_device"`
	Source            string `json:"source" validate:"one_of=mock,opencv"`
	SourceTitle       string `json:"source_title"`
	SourceDevice      string `json:"source_device"`
	Sink              string `json:"sink" validate:"one_of=discard,snapshot,window"`
	SnapshotLocation  string `json:"snapshot_location"`
	SnapshotEvery     int    `json:"snapshot_every" validate:"gte=0 & lte=10000"`
	ResetRingPerFrame bool   `json:"reset_ring_per_frame"`
	Journal           bool   `json:"journal"`
	StatusAddress     string `json:"status_address"`
}

// RunValidate checks field tags first and cross field rules second.
func (v Values) RunValidate() error {
	if err := validate.Validate(&v); err != nil {
		return err
	}
	return v.Validate()
}

func (v Values) Validate() error {
	const validationErrorHeader = "validation failed: %w"
	if v.Mode == DeviceMode && (len(v.WriteDevice) == 0 || len(v.ReadDevice) == 0) {
		return fmt.Errorf(validationErrorHeader, errors.New("device mode requires both write and read devices"))
	}
	if v.Mode == DeviceMode && v.WriteDevice == v.ReadDevice {
		return fmt.Errorf(validationErrorHeader, errors.New("write and read devices must differ"))
	}
	if v.Source == "opencv" && len(v.SourceDevice) == 0 {
		return fmt.Errorf(validationErrorHeader, errors.New("opencv source requires a source device"))
	}
	if v.Sink == "snapshot" && len(v.SnapshotLocation) == 0 {
		return fmt.Errorf(validationErrorHeader, errors.New("snapshot sink requires a snapshot location"))
	}
	return nil
}
