package tierbank

import "time"

type Config struct {
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
	Database struct {
		ConnectionString string `yaml:"conn_str"`
	} `yaml:"database"`
	Shedding struct {
		MaxInFlight    int64         `yaml:"max_in_flight"`
		AcquireTimeout time.Duration `yaml:"acquire_timeout"`
	} `yaml:"shedding"`
}
