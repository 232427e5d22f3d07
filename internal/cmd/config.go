package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/Alia5/analogdpad/dpad"
	"github.com/Alia5/analogdpad/internal/configpaths"
	"github.com/Alia5/analogdpad/internal/store"

	toml "github.com/pelletier/go-toml"
	yaml "gopkg.in/yaml.v3"
)

// ConfigCommand groups config-related subcommands.
type ConfigCommand struct {
	Init     ConfigInit     `cmd:"" help:"Generate a configuration template"`
	Show     ConfigShow     `cmd:"" help:"Print the persisted classifier settings"`
	History  ConfigHistory  `cmd:"" help:"List saved settings revisions (sqlite store)"`
	Rollback ConfigRollback `cmd:"" help:"Activate an earlier settings revision (sqlite store)"`
}

// ConfigInit scaffolds a configuration file for a specific command, or a
// settings file with the factory defaults.
type ConfigInit struct {
	Command string `arg:"" name:"command" help:"Command to generate config for" enum:"serve,classify,preview,settings"`
	Format  string `help:"Output format" enum:"json,yaml,toml" default:"json"`
	Output  string `help:"Destination file path (defaults to current directory)"`
	Force   bool   `help:"Overwrite if the file already exists"`
}

// Run generates a configuration template dynamically via reflection of the command structs and tags.
func (c *ConfigInit) Run() error {
	format := normalizeFormat(c.Format)
	if format == "" {
		return fmt.Errorf("unsupported format: %s", c.Format)
	}

	var root any
	switch c.Command {
	case "serve":
		root = buildMapFromStruct(reflect.TypeOf(Serve{}))
	case "classify":
		root = buildMapFromStruct(reflect.TypeOf(Classify{}))
	case "preview":
		root = buildMapFromStruct(reflect.TypeOf(Preview{}))
	case "settings":
		root = dpad.DefaultSettings()
	default:
		return errors.New("unknown command; expected 'serve', 'classify', 'preview' or 'settings'")
	}

	dest := c.Output
	if dest == "" {
		dest = c.Command + "." + configpaths.FormatExt(format)
	}

	if !c.Force {
		if _, err := os.Stat(dest); err == nil {
			return errors.New("destination exists; use --force to overwrite")
		}
	}
	if err := configpaths.EnsureDir(dest); err != nil {
		return err
	}

	data, err := marshalFormat(format, root)
	if err != nil {
		return err
	}
	return os.WriteFile(dest, data, 0o644)
}

// ConfigShow prints the settings the serve command would start with.
type ConfigShow struct {
	Format      string            `help:"Output format" enum:"json,yaml,toml" default:"json"`
	StoreConfig store.StoreConfig `embed:"" prefix:"store."`
}

func (c *ConfigShow) Run() error {
	return c.run(context.Background(), os.Stdout)
}

func (c *ConfigShow) run(ctx context.Context, w io.Writer) error {
	st, err := store.Open(c.StoreConfig)
	if err != nil {
		return err
	}
	defer st.Close()

	s, err := store.LoadOrDefault(ctx, st)
	if err != nil {
		return err
	}
	data, err := marshalFormat(normalizeFormat(c.Format), s)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// ConfigHistory lists the revisions kept by a versioned store.
type ConfigHistory struct {
	Limit       int               `help:"Number of revisions to list (0 lists all)" default:"20"`
	Format      string            `help:"Output format" enum:"text,json" default:"text"`
	StoreConfig store.StoreConfig `embed:"" prefix:"store."`
}

func (c *ConfigHistory) Run() error {
	return c.run(context.Background(), os.Stdout)
}

func (c *ConfigHistory) run(ctx context.Context, w io.Writer) error {
	st, v, err := openVersioned(c.StoreConfig)
	if err != nil {
		return err
	}
	defer st.Close()

	revs, err := v.History(ctx, c.Limit)
	if err != nil {
		return err
	}
	active, err := v.Active(ctx)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return err
	}

	if c.Format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(revs)
	}
	if len(revs) == 0 {
		_, err := fmt.Fprintln(w, "no revisions saved")
		return err
	}
	for _, r := range revs {
		marker := " "
		if r.ID == active.ID {
			marker = "*"
		}
		if _, err := fmt.Fprintf(w, "%s %s  %s  %s enabled=%t\n",
			marker, r.ID, r.CreatedAt.Local().Format(time.DateTime), r.Settings.Mode, r.Settings.Enabled); err != nil {
			return err
		}
	}
	return nil
}

// ConfigRollback activates an earlier revision of a versioned store.
type ConfigRollback struct {
	ID          string            `arg:"" name:"revision" help:"Revision id as listed by 'config history'"`
	StoreConfig store.StoreConfig `embed:"" prefix:"store."`
}

func (c *ConfigRollback) Run(logger *slog.Logger) error {
	return c.run(context.Background(), logger)
}

func (c *ConfigRollback) run(ctx context.Context, logger *slog.Logger) error {
	st, v, err := openVersioned(c.StoreConfig)
	if err != nil {
		return err
	}
	defer st.Close()

	if err := v.Rollback(ctx, c.ID); err != nil {
		return err
	}
	logger.Info("Settings rolled back", "revision", c.ID)
	return nil
}

func openVersioned(cfg store.StoreConfig) (store.Store, store.Versioned, error) {
	st, err := store.Open(cfg)
	if err != nil {
		return nil, nil, err
	}
	v, err := store.AsVersioned(st)
	if err != nil {
		_ = st.Close()
		return nil, nil, fmt.Errorf("%w; use --store.kind=sqlite", err)
	}
	return st, v, nil
}

func marshalFormat(format string, v any) ([]byte, error) {
	switch format {
	case "json":
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	case "yaml":
		return yaml.Marshal(v)
	case "toml":
		return toml.Marshal(v)
	}
	return nil, fmt.Errorf("unsupported format: %s", format)
}

func normalizeFormat(f string) string {
	switch strings.ToLower(f) {
	case "json":
		return "json"
	case "yaml", "yml":
		return "yaml"
	case "toml":
		return "toml"
	default:
		return ""
	}
}

func lowerCamel(s string) string {
	if s == "" {
		return s
	}
	// Convert first character to lowercase
	r := []rune(s)
	r[0] = toLower(r[0])
	return string(r)
}

func toLower(r rune) rune {
	if r >= 'A' && r <= 'Z' {
		return r + ('a' - 'A')
	}
	return r
}

func buildMapFromStruct(t reflect.Type) map[string]any {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	out := map[string]any{}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		if f.Tag.Get("kong") == "-" {
			continue
		}
		if _, ok := f.Tag.Lookup("arg"); ok {
			continue
		}

		if _, ok := f.Tag.Lookup("embed"); ok {
			prefix := f.Tag.Get("prefix")
			name := strings.TrimSuffix(prefix, ".")
			sub := buildMapFromStruct(f.Type)
			if name != "" {
				out[name] = sub
			} else {
				for k, v := range sub {
					out[k] = v
				}
			}
			continue
		}

		key := lowerCamel(f.Name)
		def := f.Tag.Get("default")
		val := defaultValueForField(f.Type, def)
		if val != nil {
			out[key] = val
		}
	}
	return out
}

func defaultValueForField(t reflect.Type, def string) any {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.PkgPath() == "time" && t.Name() == "Duration" {
		if def != "" {
			return def
		}
		return "0s"
	}
	switch t.Kind() {
	case reflect.String:
		return def // may be empty
	case reflect.Bool:
		if def == "" {
			return false
		}
		b, err := strconv.ParseBool(def)
		if err != nil {
			return false
		}
		return b
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if def == "" {
			return 0
		}
		n, err := strconv.ParseInt(def, 10, 64)
		if err != nil {
			return 0
		}
		return n
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if def == "" {
			return 0
		}
		n, err := strconv.ParseUint(def, 10, 64)
		if err != nil {
			return 0
		}
		return n
	case reflect.Float32, reflect.Float64:
		if def == "" {
			return 0
		}
		f, err := strconv.ParseFloat(def, 64)
		if err != nil {
			return 0
		}
		return f
	case reflect.Struct:
		return buildMapFromStruct(t)
	default:
		return nil
	}
}
