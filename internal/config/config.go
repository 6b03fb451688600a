package config

import (
	"errors"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	log "github.com/sirupsen/logrus"
)

const EnvPrefix = "MEETINGFINDER_"

type Application struct {
	Host         string       `koanf:"host"`
	Server       Server       `koanf:"server"`
	Database     Database     `koanf:"db"`
	Availability Availability `koanf:"availability"`
	Google       Google       `koanf:"google"`
}

type Server struct {
	Addr string `koanf:"addr"`
}

type Database struct {
	Host    string `koanf:"host"`
	Port    int    `koanf:"port"`
	User    string `koanf:"user"`
	Pass    string `koanf:"pass"`
	Name    string `koanf:"name"`
	Schema  string `koanf:"schema"`
	SSLMode string `koanf:"sslmode"`

	MaxConns int32 `koanf:"maxconns"`
	MinConns int32 `koanf:"minconns"`

	// MigrationsPath overrides the search for a "migrations" directory.
	MigrationsPath string `koanf:"migrationspath"`
}

type Availability struct {
	// Timezone is used for queries that do not name one.
	Timezone string `koanf:"timezone"`
}

type Google struct {
	Enabled         bool   `koanf:"enabled"`
	CredentialsFile string `koanf:"credentialsfile"`
	AccessToken     string `koanf:"accesstoken"`
}

func defaults() Application {
	return Application{
		Host: "http://localhost:8181",
		Server: Server{
			Addr: ":8181",
		},
		Database: Database{
			Host:     "localhost",
			Port:     5432,
			User:     "meetingfinder",
			Pass:     "",
			Name:     "meetingfinder",
			Schema:   "meetingfinder",
			SSLMode:  "disable",
			MaxConns: 10,
			MinConns: 1,
		},
		Availability: Availability{
			Timezone: "UTC",
		},
	}
}

func Load(path string) (Application, error) {
	var k = koanf.New(".")

	err := k.Load(structs.Provider(defaults(), "koanf"), nil)
	if err != nil {
		log.Errorf("error loading config from structs: %v", err)
		return Application{}, err
	}

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Infof("Config file not found at %s, using defaults and environment variables", path)
		} else {
			log.Errorf("error loading config from YAML: %v", err)
			return Application{}, err
		}
	} else {
		log.Infof("Loaded configuration from file: %s", path)
	}

	err = k.Load(env.Provider(".", env.Opt{
		Prefix: EnvPrefix,
		TransformFunc: func(k, v string) (string, any) {
			k = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(k, EnvPrefix)), "_", ".")
			return k, v
		},
	}), nil)
	if err != nil {
		log.Errorf("error loading config from envs: %v", err)
		return Application{}, err
	}

	var app Application
	if err := k.Unmarshal("", &app); err != nil {
		return Application{}, err
	}

	return app, nil
}
