package orchestrator

import (
	"os"

	"gopkg.in/yaml.v3"

	"rv2model/internal/rverrors"
)

// fileConfig is the YAML config file shape: the lists that are unwieldy
// as comma-separated flag values. Grounded on sunholo-data-ailang's use
// of gopkg.in/yaml.v3 for its manifests.
type fileConfig struct {
	SpecFiles    []string `yaml:"spec_files"`
	IgnoreFuncs  []string `yaml:"ignore_funcs"`
	VerifyFuncs  []string `yaml:"verify_funcs"`
	StructMacros []string `yaml:"struct_macros"`
	ArrayMacros  []string `yaml:"array_macros"`
	IgnoreSpecs  *bool    `yaml:"ignore_specs"`
}

// ResolveConfig merges opt.ConfigPath's YAML file into opt, field by
// field, wherever the CLI left a field at its zero value. CLI flags win,
// the same precedence vslc/util.ParseArgs gives its own flag set over
// nothing (vslc has no config file, so this module extends that
// precedence rule to cover one).
func ResolveConfig(opt Options) (Options, error) {
	if opt.ConfigPath == "" {
		return opt, nil
	}
	data, err := os.ReadFile(opt.ConfigPath)
	if err != nil {
		return opt, rverrors.Wrapf(err, rverrors.InputMissing, "reading config file %q", opt.ConfigPath)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return opt, rverrors.Wrapf(err, rverrors.InputMissing, "parsing config file %q", opt.ConfigPath)
	}

	if len(opt.SpecFiles) == 0 {
		opt.SpecFiles = fc.SpecFiles
	}
	if len(opt.IgnoreFuncs) == 0 {
		opt.IgnoreFuncs = fc.IgnoreFuncs
	}
	if len(opt.VerifyFuncs) == 0 {
		opt.VerifyFuncs = fc.VerifyFuncs
	}
	if len(opt.StructMacros) == 0 {
		opt.StructMacros = fc.StructMacros
	}
	if len(opt.ArrayMacros) == 0 {
		opt.ArrayMacros = fc.ArrayMacros
	}
	if !opt.IgnoreSpecs && fc.IgnoreSpecs != nil {
		opt.IgnoreSpecs = *fc.IgnoreSpecs
	}
	return opt, nil
}
