package helpers

import (
	"fmt"
	"reflect"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/compozy/pdftab/pkg/config/definition"
)

// ConfigPathAnnotation marks flags that feed a configuration path.
const ConfigPathAnnotation = "pdftab_config_path"

// AddConfigFlags declares one flag per registry path, using the registry's
// flag name, shorthand, default and help text. Byte sizes are string flags so
// that "50MiB" style values are accepted.
func AddConfigFlags(fs *pflag.FlagSet, paths ...string) {
	registry := definition.CreateRegistry()
	for _, path := range paths {
		field, ok := registry.GetField(path)
		if !ok || field.CLIFlag == "" {
			panic(fmt.Sprintf("no CLI flag registered for config path %q", path))
		}
		if fs.Lookup(field.CLIFlag) != nil {
			continue
		}
		declareFlag(fs, &field)
		if err := fs.SetAnnotation(field.CLIFlag, ConfigPathAnnotation, []string{path}); err != nil {
			panic(err)
		}
	}
}

func declareFlag(fs *pflag.FlagSet, field *definition.FieldDef) {
	name, short, help := field.CLIFlag, field.Shorthand, field.Help
	switch field.Type.Kind() {
	case reflect.Bool:
		fs.BoolP(name, short, field.Default.(bool), help)
	case reflect.Float64:
		fs.Float64P(name, short, field.Default.(float64), help)
	case reflect.Int:
		fs.IntP(name, short, field.Default.(int), help)
	case reflect.Int64:
		if field.Type == reflect.TypeOf(time.Duration(0)) {
			fs.DurationP(name, short, field.Default.(time.Duration), help)
			return
		}
		fs.StringP(name, short, humanize.IBytes(uint64(field.Default.(int64))), help)
	default:
		fs.StringP(name, short, fmt.Sprint(field.Default), help)
	}
}

// ChangedConfigFlags returns the explicitly set config flags keyed by flag name,
// ready for config.NewCLIProvider.
func ChangedConfigFlags(cmd *cobra.Command) map[string]any {
	flags := make(map[string]any)
	cmd.Flags().Visit(func(f *pflag.Flag) {
		if _, ok := f.Annotations[ConfigPathAnnotation]; !ok {
			return
		}
		flags[f.Name] = flagValue(cmd.Flags(), f)
	})
	return flags
}

func flagValue(fs *pflag.FlagSet, f *pflag.Flag) any {
	var (
		v   any
		err error
	)
	switch f.Value.Type() {
	case "bool":
		v, err = fs.GetBool(f.Name)
	case "int":
		v, err = fs.GetInt(f.Name)
	case "float64":
		v, err = fs.GetFloat64(f.Name)
	case "duration":
		v, err = fs.GetDuration(f.Name)
	default:
		return f.Value.String()
	}
	if err != nil {
		return f.Value.String()
	}
	return v
}
