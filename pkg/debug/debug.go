package debug

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Config struct {
	Debug      bool
	DebugLevel int
	LogFile    string
	LogFormat  string
}

// MustSetupDebug configures the global logger. It panics on an unknown log format.
func (c *Config) MustSetupDebug() {
	if err := c.SetupDebug(); err != nil {
		panic(err)
	}
}

func (c *Config) SetupDebug() error {
	logrus.SetLevel(c.level())

	switch c.LogFormat {
	case "", "text":
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	case "json":
		logrus.SetFormatter(&logrus.JSONFormatter{})
	default:
		return cli.Exit("unknown log format "+c.LogFormat, 1)
	}

	if c.LogFile != "" {
		logrus.SetOutput(io.MultiWriter(os.Stderr, &lumberjack.Logger{
			Filename:   c.LogFile,
			MaxSize:    50,
			MaxBackups: 3,
			MaxAge:     28,
			Compress:   true,
		}))
	}
	return nil
}

func (c *Config) level() logrus.Level {
	if !c.Debug {
		return logrus.InfoLevel
	}
	if c.DebugLevel > 0 {
		return logrus.TraceLevel
	}
	return logrus.DebugLevel
}

func Flags(config *Config) []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:        "debug",
			EnvVars:     []string{"TABLEBUNDLE_DEBUG"},
			Usage:       "Enable debug logs, including every prepared statement",
			Destination: &config.Debug,
		},
		&cli.IntFlag{
			Name:        "debug-level",
			EnvVars:     []string{"TABLEBUNDLE_DEBUG_LEVEL"},
			Value:       0,
			Usage:       "Debug log level, above 0 enables trace logs",
			Destination: &config.DebugLevel,
		},
		&cli.StringFlag{
			Name:        "log-file",
			EnvVars:     []string{"TABLEBUNDLE_LOG_FILE"},
			Usage:       "Also write logs to this file, rotated",
			Destination: &config.LogFile,
		},
		&cli.StringFlag{
			Name:        "log-format",
			EnvVars:     []string{"TABLEBUNDLE_LOG_FORMAT"},
			Value:       "text",
			Usage:       "Log format, text or json",
			Destination: &config.LogFormat,
		},
	}
}
