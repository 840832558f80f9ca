package catalog

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/tzlist/tzselect/logging"
	"github.com/tzlist/tzselect/rfc9636"
)

// DefaultDirs lists the zoneinfo directories searched when none are
// configured, preceded by $ZONEINFO when it is set.
func DefaultDirs() []string {
	dirs := []string{
		"/usr/share/zoneinfo",
		"/usr/share/lib/zoneinfo",
		"/usr/lib/locale/TZ",
		"/etc/zoneinfo",
	}
	if env := os.Getenv("ZONEINFO"); env != "" {
		dirs = append([]string{env}, dirs...)
	}
	return dirs
}

type loader struct {
	root     string // directory being walked
	resolved string // root with symlinks evaluated
	zones    map[string]Zone
	errs     *multierror.Error
}

// Load walks the zoneinfo directories and returns every zone file found.
// Symlinks become links to the zone they resolve to. When a name appears in
// several directories the first one wins. Unreadable directories are only
// an error when nothing at all was found.
func Load(dirs []string) (*Catalog, error) {
	l := &loader{zones: make(map[string]Zone)}
	for _, dir := range dirs {
		if _, err := os.Stat(dir); err != nil {
			logging.Trace("zoneinfo directory is not available", "path", dir)
			if !errors.Is(err, fs.ErrNotExist) {
				l.errs = multierror.Append(l.errs, err)
			}
			continue
		}
		resolved, err := filepath.EvalSymlinks(dir)
		if err != nil {
			l.errs = multierror.Append(l.errs, err)
			continue
		}
		l.root, l.resolved = dir, resolved
		l.walk("")
	}

	if len(l.zones) == 0 {
		return nil, multierror.Append(ErrEmpty, l.errs.ErrorOrNil())
	}
	if err := l.errs.ErrorOrNil(); err != nil {
		slog.Warn("Some zoneinfo entries could not be read", "error", err)
	}

	zones := make([]Zone, 0, len(l.zones))
	for _, z := range l.zones {
		zones = append(zones, z)
	}
	c := New(zones)
	slog.Debug("Catalog loaded", "zones", c.Len(), "dirs", dirs)
	return c, nil
}

// capitalized follows the Linux convention that zone names start with an
// upper case letter; posix, right, localtime and the .tab files do not.
func capitalized(name string) bool {
	return name != "" && name == strings.ToUpper(name[:1])+name[1:]
}

func (l *loader) walk(rel string) {
	entries, err := os.ReadDir(filepath.Join(l.root, filepath.FromSlash(rel)))
	if err != nil {
		l.errs = multierror.Append(l.errs, err)
		return
	}

	for _, info := range entries {
		if !capitalized(info.Name()) {
			logging.Trace("Skipping entry because name is not capitalized", "filename", info.Name())
			continue
		}
		name := path.Join(rel, info.Name())

		switch {
		case info.Type()&fs.ModeSymlink != 0:
			l.addLink(name)
		case info.IsDir():
			l.walk(name)
		default:
			l.addZone(name)
		}
	}
}

func (l *loader) addZone(name string) {
	if _, seen := l.zones[name]; seen {
		return
	}
	loc, err := rfc9636.LoadLocation(name, []string{l.root})
	if err != nil {
		logging.Trace("File is not a timezone file", "file", name, "error", err)
		return
	}
	if logging.TraceEnabled() {
		var b strings.Builder
		rfc9636.DumpLocation(&b, loc)
		logging.Trace("dump of zoneinfo", "timezone", name, "dump", b.String())
	}
	l.zones[name] = Zone{Name: name, Extend: loc.Extend()}
}

func (l *loader) addLink(name string) {
	if _, seen := l.zones[name]; seen {
		return
	}
	full := filepath.Join(l.root, filepath.FromSlash(name))
	resolvedPath, err := filepath.EvalSymlinks(full)
	if err != nil {
		slog.Error("Could not evaluate symlink", "symlink", full, "error", err)
		return
	}
	if fi, err := os.Stat(resolvedPath); err != nil || fi.IsDir() {
		logging.Trace("Skipping symlink that is not a zone file", "symlink", full)
		return
	}
	rel, err := filepath.Rel(l.resolved, resolvedPath)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		slog.Error("Could not extract timezone alias", "path", resolvedPath)
		return
	}
	target := filepath.ToSlash(rel)

	loc, err := rfc9636.LoadLocation(target, []string{l.resolved})
	if err != nil {
		logging.Trace("Symlink target is not a timezone file", "symlink", full, "error", err)
		return
	}
	if target == name {
		l.zones[name] = Zone{Name: name, Extend: loc.Extend()}
		return
	}
	slog.Debug("Timezone has alias", "timezone", target, "alias", name)
	l.zones[name] = Zone{Name: name, Target: target, Extend: loc.Extend()}
}
