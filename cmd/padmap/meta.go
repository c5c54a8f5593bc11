package main

import (
	"cmp"
	"fmt"
	"runtime/debug"
	"time"
)

var (
	Version = ""
	Commit  = ""
	Date    = ""
)

var descriptionTemplate = `
Gamepad input remapping with persisted button tables
  Version: %s (%s)
           %s
  Source:  https://github.com/Alia5/padmap
  License: GPLv3
`

func Description() string {
	return fmt.Sprintf(descriptionTemplate, Version, Commit, Date)
}

// banner is printed above the help text on wide terminals.
const banner = "\x1b[36m" + `
     .-----------------------------.
    /   [^]              (Y) (Z)    \
   |  [<] [>]   [start]  (X) (C)     |
    \   [v]              (A) (B)    /
     '-----------------------------'` + "\x1b[0m"

// bannerWidth is the terminal width below which help is printed plain.
const bannerWidth = 80

func init() {
	var revision, vcsTime string
	if info, ok := debug.ReadBuildInfo(); ok {
		if Version == "" && info.Main.Version != "(devel)" {
			Version = info.Main.Version
		}
		for _, kv := range info.Settings {
			switch kv.Key {
			case "vcs.revision":
				revision = kv.Value
			case "vcs.time":
				vcsTime = kv.Value
			}
		}
	}
	if Commit == "" && revision != "" {
		Commit = revision[:min(7, len(revision))]
	}
	if Date == "" && vcsTime != "" {
		Date = vcsTime
		if t, err := time.Parse(time.RFC3339, vcsTime); err == nil {
			Date = t.Format(time.DateOnly)
		}
	}
	Version = cmp.Or(Version, "dev")
	Commit = cmp.Or(Commit, "unknown")
	Date = cmp.Or(Date, "unknown")
}
