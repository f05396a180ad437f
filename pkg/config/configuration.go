// Copyright 2021 Matrix Origin
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/matrixorigin/symtable/pkg/common/moerr"
	"github.com/matrixorigin/symtable/pkg/container/symtable"
	"github.com/matrixorigin/symtable/pkg/logutil"
	"github.com/matrixorigin/symtable/pkg/vm/mmu/host"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	// VariantHash is the separate chaining table that grows with its load.
	VariantHash = "hash"
	// VariantList keeps every binding on one chain.
	VariantList = "list"

	//default is 1 << 40 = 1099511627776
	defaultMemoryLimit int64 = 1 << 40
)

// Config is the top level configuration.
type Config struct {
	Log logutil.LogConfig `toml:"log"`

	SymTable SymTableParameters `toml:"symtable"`
}

// SymTableParameters of the symbol tables built from this config
type SymTableParameters struct {
	//default is 'hash'. 'list' keeps a single chain and never grows.
	Variant string `toml:"variant"`

	//bytes shared by every table built from this config. default: 1 << 40
	MemoryLimit int64 `toml:"memory-limit"`
}

// LoadConfigFromFile decodes the toml file at path into cfg, fills the
// defaults and validates the result.
func LoadConfigFromFile(path string, cfg *Config) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return moerr.NewBadConfig("decode %s", path).WithDetail(err.Error())
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return moerr.NewBadConfig("unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return err
	}
	logutil.Info("symtable config loaded",
		zap.String("path", path),
		zap.String("variant", cfg.SymTable.Variant),
		zap.Int64("memory-limit", cfg.SymTable.MemoryLimit),
		zap.String("log-level", cfg.Log.Level))
	return nil
}

// SetDefaults fills zero values with defaults.
func (c *Config) SetDefaults() {
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
	if c.SymTable.Variant == "" {
		c.SymTable.Variant = VariantHash
	}
	if c.SymTable.MemoryLimit == 0 {
		c.SymTable.MemoryLimit = defaultMemoryLimit
	}
}

// Validate checks a config that went through SetDefaults.
func (c *Config) Validate() error {
	switch c.SymTable.Variant {
	case VariantHash, VariantList:
	default:
		return moerr.NewBadConfig("symtable variant %q, want %q or %q", c.SymTable.Variant, VariantHash, VariantList)
	}
	if c.SymTable.MemoryLimit < 0 {
		return moerr.NewBadConfig("symtable memory-limit %d is negative", c.SymTable.MemoryLimit)
	}
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return moerr.NewBadConfig("log level %q", c.Log.Level)
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return moerr.NewBadConfig("log format %q", c.Log.Format)
	}
	return nil
}

// Runtime holds what tables built from one config share.
type Runtime struct {
	Config *Config
	Mmu    *host.Mmu
}

// NewRuntime installs the configured logger and creates the shared mmu. A
// logger that cannot be built, such as a log file naming a directory, is
// returned as an internal error.
func NewRuntime(cfg *Config) (rt *Runtime, err error) {
	defer func() {
		if r := recover(); r != nil {
			rt, err = nil, moerr.ConvertPanicError(r)
		}
	}()
	logutil.SetupMOLogger(&cfg.Log)
	logutil.Info("symtable runtime ready",
		zap.String("variant", cfg.SymTable.Variant),
		zap.Int64("memory-limit", cfg.SymTable.MemoryLimit))
	return &Runtime{
		Config: cfg,
		Mmu:    host.New(cfg.SymTable.MemoryLimit),
	}, nil
}

// NewSymTable builds a table of the configured variant, charged to the
// runtime's mmu.
func NewSymTable[V any](rt *Runtime, opts ...symtable.Option) (*symtable.Table[V], error) {
	opts = append([]symtable.Option{
		symtable.WithMmu(rt.Mmu),
		symtable.WithLogger(logutil.GetNamedLogger("symtable")),
	}, opts...)
	if rt.Config.SymTable.Variant == VariantList {
		return symtable.NewList[V](opts...)
	}
	return symtable.New[V](opts...)
}
