package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	log "github.com/sirupsen/logrus"
)

const envPrefix = "LEDGER_"

type Application struct {
	Common    Common              `koanf:"common"`
	Server    Server              `koanf:"server"`
	Database  Database            `koanf:"db"`
	Google    Google              `koanf:"google"`
	Users     map[string][]string `koanf:"users"`
	Calendars []CalendarFeed      `koanf:"calendars"`
}

// Common holds the settings every report depends on.
type Common struct {
	Timezone string `koanf:"timezone"`
	// Rate is the billable hourly rate used to turn revenue targets into billable hours.
	Rate         float64 `koanf:"rate"`
	StartWeekday int     `koanf:"start_weekday"`
}

type Server struct {
	Addr string `koanf:"addr"`
}

type Database struct {
	Host   string `koanf:"host"`
	Port   int    `koanf:"port"`
	User   string `koanf:"user"`
	Pass   string `koanf:"pass"`
	Name   string `koanf:"name"`
	Schema string `koanf:"schema"`
}

type Google struct {
	CredentialsFile string `koanf:"credentialsfile"`
	ApiKey          string `koanf:"apikey"`
}

// CalendarFeed describes one holiday calendar to import.
type CalendarFeed struct {
	Id       string `koanf:"id"`
	Type     string `koanf:"type"`
	Excused  bool   `koanf:"excused"`
	Overtime bool   `koanf:"overtime"`
}

func (c Common) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid common.timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func (c Common) WeekStart() time.Weekday {
	return time.Weekday(((c.StartWeekday % 7) + 7) % 7)
}

func defaults() Application {
	return Application{
		Common: Common{
			Timezone:     "Europe/Berlin",
			Rate:         0,
			StartWeekday: int(time.Monday),
		},
		Server: Server{
			Addr: ":8181",
		},
		Database: Database{
			Host:   "localhost",
			Port:   5432,
			User:   "ledger",
			Pass:   "",
			Name:   "ledger",
			Schema: "ledger",
		},
	}
}

func Load(path string) (Application, error) {
	var k = koanf.New(".")

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warnf("unable to read .env file: %v", err)
	}

	err := k.Load(structs.Provider(defaults(), "koanf"), nil)
	if err != nil {
		log.Errorf("error loading config from structs: %v", err)
		return Application{}, err
	}

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		if os.IsNotExist(err) {
			log.Infof("Config file not found at %s, using defaults and environment variables", path)
		} else {
			log.Errorf("error loading config from YAML: %v", err)
			return Application{}, err
		}
	} else {
		log.Infof("Loaded configuration from file: %s", path)
	}

	err = k.Load(env.Provider(".", env.Opt{
		Prefix: envPrefix,
		TransformFunc: func(k, v string) (string, any) {
			// LEDGER_COMMON_START_WEEKDAY -> common.start_weekday
			section, key, _ := strings.Cut(strings.ToLower(strings.TrimPrefix(k, envPrefix)), "_")
			if key == "" {
				return section, v
			}
			return section + "." + key, v
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
	if _, err := app.Common.Location(); err != nil {
		return Application{}, err
	}

	return app, nil
}
