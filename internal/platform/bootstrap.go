// Package platform registers the system commands and associations of the
// host operating system.
package platform

import (
	"fmt"
	"runtime"

	"github.com/zjrosen/opener/internal/command"
	"github.com/zjrosen/opener/internal/filter"
	"github.com/zjrosen/opener/internal/log"
)

// Profile lists the commands and system associations for one OS.
type Profile struct {
	Commands     []command.Command
	Associations []SystemAssociation
}

// SystemAssociation binds a registered alias to a filter.
type SystemAssociation struct {
	Alias  string
	Filter filter.Filter
}

func executableFilter() filter.Filter {
	return filter.PermissionFilter{Permission: filter.PermissionExecute, Required: true}
}

// ProfileFor returns the profile for goos. Unknown systems get an empty
// profile, leaving resolution to the executable fallback.
func ProfileFor(goos string) Profile {
	switch goos {
	case "linux", "freebsd", "openbsd", "netbsd", "dragonfly":
		return Profile{
			Commands: []command.Command{
				command.NewWithDisplayName(command.FileOpenerAlias, "xdg-open $f", command.KindSystem, "Open"),
				command.New(command.URLOpenerAlias, "xdg-open $f", command.KindSystem),
				command.NewWithDisplayName(command.FileManagerAlias, "xdg-open $p", command.KindSystem, "File manager"),
				command.New(command.ExeOpenerAlias, "$f", command.KindSystem),
				command.New(command.CmdOpenerAlias, "x-terminal-emulator", command.KindSystem),
			},
			Associations: []SystemAssociation{
				{
					Alias: command.ExeOpenerAlias,
					Filter: filter.NewComposite(
						executableFilter(),
						filter.AttributeFilter{Attribute: filter.AttributeSymlink, Inverted: true},
					),
				},
			},
		}
	case "darwin":
		return Profile{
			Commands: []command.Command{
				command.NewWithDisplayName(command.FileOpenerAlias, "open $f", command.KindSystem, "Open"),
				command.New(command.URLOpenerAlias, "open $f", command.KindSystem),
				command.NewWithDisplayName(command.FileManagerAlias, "open -R $f", command.KindSystem, "Reveal in Finder"),
				command.New(command.ExeOpenerAlias, "open -a $f", command.KindSystem),
				command.New(command.CmdOpenerAlias, "open -a Terminal $p", command.KindSystem),
			},
			Associations: []SystemAssociation{
				{Alias: command.ExeOpenerAlias, Filter: filter.MustNameMask("*.app", false)},
			},
		}
	case "windows":
		return Profile{
			Commands: []command.Command{
				command.NewWithDisplayName(command.FileOpenerAlias, `cmd /c start "" $f`, command.KindSystem, "Open"),
				command.New(command.URLOpenerAlias, `cmd /c start "" $f`, command.KindSystem),
				command.NewWithDisplayName(command.FileManagerAlias, "explorer /select,$f", command.KindSystem, "Show in Explorer"),
				command.New(command.ExeOpenerAlias, "$f", command.KindSystem),
				command.New(command.CmdOpenerAlias, "cmd /k cd /d $p", command.KindSystem),
			},
			Associations: []SystemAssociation{
				{Alias: command.ExeOpenerAlias, Filter: filter.MustNameMask("*.{exe,bat,cmd,com}", false)},
			},
		}
	default:
		return Profile{}
	}
}

// Bootstrap registers the profile of the running OS.
func Bootstrap(commands *command.Registry, associations *command.Associations) error {
	return Apply(ProfileFor(runtime.GOOS), commands, associations)
}

// Apply registers p's commands without marking the registry modified, then
// its system associations.
func Apply(p Profile, commands *command.Registry, associations *command.Associations) error {
	for _, c := range p.Commands {
		if err := commands.RegisterDefault(c); err != nil {
			return fmt.Errorf("registering system command %s: %w", c.Alias(), err)
		}
	}
	for _, a := range p.Associations {
		if err := associations.RegisterSystem(a.Alias, a.Filter); err != nil {
			return fmt.Errorf("registering system association for %s: %w", a.Alias, err)
		}
	}
	log.Debug(log.CatPlatform, "bootstrapped platform", "commands", len(p.Commands), "associations", len(p.Associations))
	return nil
}
