package main

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"hivescan/internal/config"
	"hivescan/internal/registry"
)

var (
	errUsage       = errors.New("wrong number of arguments")
	errNotReadable = errors.New("key cannot be read")
	errReadOnly    = errors.New("the windows backend is read-only")
)

type command func(e *env, args []string) error

var commands = map[string]command{
	"list":   cmdList,
	"digest": cmdDigest,
	"set":    cmdSet,
	"unset":  cmdUnset,
	"mkkey":  cmdMkkey,
	"rmkey":  cmdRmkey,
	"info":   cmdInfo,
}

func cmdList(e *env, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	root, path, err := registry.ParsePath(args[0])
	if err != nil {
		return err
	}

	var entries []registry.Entry
	ok := e.enum.EnumeratePath(e.resolver, root, path, func(name string, v registry.Value) registry.Outcome {
		entries = append(entries, registry.Entry{Name: name, Value: v})
		return registry.Continue
	})
	if !ok {
		return fmt.Errorf("%s: %w", args[0], errNotReadable)
	}
	logger.Debug("listed key", "key", args[0], "values", len(entries))
	return e.printEntries(entries)
}

func cmdDigest(e *env, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	root, path, err := registry.ParsePath(args[0])
	if err != nil {
		return err
	}
	vals := e.enum.CollectPath(e.resolver, root, path)
	sum := vals.Digest()
	fmt.Fprintf(e.out, "%x  %d values\n", sum, vals.Len())
	return nil
}

func cmdSet(e *env, args []string) error {
	if len(args) < 3 {
		return errUsage
	}
	if e.hive == nil {
		return errReadOnly
	}
	root, path, err := registry.ParsePath(args[0])
	if err != nil {
		return err
	}
	t, err := registry.ParseType(args[2])
	if err != nil {
		return err
	}
	v, err := parseValue(t, args[3:])
	if err != nil {
		return err
	}
	if err := e.hive.CreateKey(root, path); err != nil {
		return err
	}
	return e.hive.SetValue(root, path, args[1], v)
}

// parseValue builds a Value from command-line words. Integers accept any
// strconv base prefix; byte-typed payloads are hex.
func parseValue(t registry.Type, words []string) (registry.Value, error) {
	v := registry.Value{Type: t}
	switch t {
	case registry.SZ, registry.EXPAND_SZ, registry.LINK:
		v.String = strings.Join(words, " ")
	case registry.MULTI_SZ:
		v.Strings = words
	case registry.DWORD, registry.DWORD_BIG_ENDIAN, registry.QWORD:
		if len(words) != 1 {
			return v, errUsage
		}
		bits := 32
		if t == registry.QWORD {
			bits = 64
		}
		n, err := strconv.ParseUint(words[0], 0, bits)
		if err != nil {
			return v, fmt.Errorf("parsing %s: %w", t, err)
		}
		v.Integer = n
	default:
		b, err := hex.DecodeString(strings.Join(words, ""))
		if err != nil {
			return v, fmt.Errorf("parsing %s: %w", t, err)
		}
		v.Bytes = b
	}
	return v, nil
}

func cmdUnset(e *env, args []string) error {
	if len(args) != 2 {
		return errUsage
	}
	if e.hive == nil {
		return errReadOnly
	}
	root, path, err := registry.ParsePath(args[0])
	if err != nil {
		return err
	}
	return e.hive.DeleteValue(root, path, args[1])
}

func cmdMkkey(e *env, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	if e.hive == nil {
		return errReadOnly
	}
	root, path, err := registry.ParsePath(args[0])
	if err != nil {
		return err
	}
	return e.hive.CreateKey(root, path)
}

func cmdRmkey(e *env, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	if e.hive == nil {
		return errReadOnly
	}
	root, path, err := registry.ParsePath(args[0])
	if err != nil {
		return err
	}
	return e.hive.DeleteKey(root, path)
}

func cmdInfo(e *env, args []string) error {
	if len(args) != 0 {
		return errUsage
	}
	fmt.Fprintf(e.out, "backend: %s\n", e.cfg.Hive.Backend)
	if e.cfg.Hive.Backend == config.BackendBolt {
		fmt.Fprintf(e.out, "path:    %s\n", config.ExpandHome(e.cfg.Hive.Path))
		fmt.Fprintf(e.out, "id:      %s\n", e.hive.ID())
	}
	o := e.enum.Options()
	fmt.Fprintf(e.out, "buffers: name %d, value %d, max %d\n",
		o.InitialNameCapacity, o.InitialValueCapacity, o.MaxCapacity)
	fmt.Fprintf(e.out, "duplicates: %s\n", o.Duplicates)
	return nil
}
