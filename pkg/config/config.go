package config

import (
	"github.com/tauraamui/medianstream/internal/config"
	"github.com/tauraamui/medianstream/pkg/configdef"
)

func DefaultResolver() configdef.Resolver {
	return config.DefaultResolver()
}

func DefaultCreator() configdef.Creator {
	return config.DefaultCreator()
}

func DefaultCreateResolver() configdef.CreateResolver {
	return config.DefaultCreateResolver()
}

func DefaultDestroyer() configdef.Destroyer {
	return config.DefaultDestroyer()
}
