package gitcore

import (
	"path/filepath"

	"gopkg.in/ini.v1"
)

// Config is the parsed form of .rvs/config. Only the keys the engine reads
// are surfaced as typed fields; unrecognized keys are preserved on Save
// because ini.File round-trips them.
type Config struct {
	file *ini.File
	path string

	Bare             bool
	FileMode         bool
	LogAllRefUpdates bool
	DefaultBranch    string
}

// LoadConfig parses metaDir/config, tolerating a missing file by returning
// the documented defaults (spec.md §6's sample config contents).
func LoadConfig(metaDir string) (*Config, error) {
	path := filepath.Join(metaDir, "config")

	f, err := ini.LooseLoad(path)
	if err != nil {
		return nil, newErr(ErrIOFailure, err, "parsing config")
	}

	core := f.Section("core")
	cfg := &Config{
		file:             f,
		path:             path,
		Bare:             core.Key("bare").MustBool(false),
		FileMode:         core.Key("filemode").MustBool(true),
		LogAllRefUpdates: core.Key("logallrefupdates").MustBool(true),
		DefaultBranch:    core.Key("defaultBranch").MustString("main"),
	}
	return cfg, nil
}

// Save persists cfg back to its file, preserving any keys this engine does
// not model.
func (c *Config) Save() error {
	core := c.file.Section("core")
	core.Key("bare").SetValue(boolStr(c.Bare))
	core.Key("filemode").SetValue(boolStr(c.FileMode))
	core.Key("logallrefupdates").SetValue(boolStr(c.LogAllRefUpdates))
	core.Key("defaultBranch").SetValue(c.DefaultBranch)
	if err := c.file.SaveTo(c.path); err != nil {
		return newErr(ErrIOFailure, err, "saving config")
	}
	return nil
}

func boolStr(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
