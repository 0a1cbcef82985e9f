package config

import (
	"flag"
	"time"
)

// cliFlags holds values parsed from the command line together with the set
// of flags the user actually passed, so unset flags never clobber values
// from the config file or environment.
type cliFlags struct {
	configFile   string
	httpAddr     string
	databaseDSN  string
	secretKey    string
	sessionHours int
	redisAddr    string
	set          map[string]bool
}

// parseFlags parses the supported flags from args.
//
// Supported flags (short forms):
//
//	-c, -config string   path to a JSON or YAML config file
//	-a string            HTTP bind address (e.g., ":8080")
//	-d string            PostgreSQL DSN
//	-s string            session signing secret
//	-t int               session validity, hours
//	-r string            Redis address for the exercise cache
func parseFlags(args []string) (*cliFlags, error) {
	fl := &cliFlags{set: map[string]bool{}}

	fs := flag.NewFlagSet("edutrack", flag.ContinueOnError)
	fs.StringVar(&fl.configFile, "config", "", "path to config file")
	fs.StringVar(&fl.configFile, "c", "", "path to config file (short)")
	fs.StringVar(&fl.httpAddr, "a", "", "address and port to run server")
	fs.StringVar(&fl.databaseDSN, "d", "", "database DSN")
	fs.StringVar(&fl.secretKey, "s", "", "session signing secret")
	fs.IntVar(&fl.sessionHours, "t", 0, "session validity (in hours)")
	fs.StringVar(&fl.redisAddr, "r", "", "redis address for the exercise cache")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	fs.Visit(func(f *flag.Flag) { fl.set[f.Name] = true })
	return fl, nil
}

func (fl *cliFlags) apply(cfg *Config) {
	if fl.set["a"] {
		cfg.HTTPAddr = fl.httpAddr
	}
	if fl.set["d"] {
		cfg.DatabaseDSN = fl.databaseDSN
	}
	if fl.set["s"] {
		cfg.SecretKey = fl.secretKey
	}
	if fl.set["t"] {
		cfg.SessionValidityDuration = time.Duration(fl.sessionHours) * time.Hour
	}
	if fl.set["r"] {
		cfg.RedisAddr = fl.redisAddr
	}
}
