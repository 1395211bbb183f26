package config

import (
	"context"
	"fmt"

	"github.com/snowflakedb/gosnowflake"
	"gopkg.in/ini.v1"
)

// Registry reads warehouse credential profiles from an ini file, one
// section per profile.
type Registry interface {
	GetProfiles(ctx context.Context) ([]string, error)
	GetConfig(ctx context.Context, profile string) (*gosnowflake.Config, error)
}

type cfgRegistry struct {
	cfg *ini.File
}

func NewRegistry(path string) (Registry, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, err
	}
	return &cfgRegistry{cfg: cfg}, nil
}

func (cr *cfgRegistry) GetProfiles(_ context.Context) ([]string, error) {
	var profiles []string
	for _, section := range cr.cfg.Sections() {
		if len(section.Keys()) > 0 {
			profiles = append(profiles, section.Name())
		}
	}
	return profiles, nil
}

func (cr *cfgRegistry) GetConfig(_ context.Context, profile string) (*gosnowflake.Config, error) {
	section := cr.cfg.Section(profile)
	if section == nil || len(section.Keys()) == 0 {
		return nil, fmt.Errorf("profile %s not found", profile)
	}

	return &gosnowflake.Config{
		Account:   section.Key("account").String(),
		User:      section.Key("user").String(),
		Password:  section.Key("password").String(),
		Database:  section.Key("database").String(),
		Schema:    section.Key("schema").String(),
		Warehouse: section.Key("warehouse").String(),
		Role:      section.Key("role").String(),
	}, nil
}
