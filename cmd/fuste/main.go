// Command fuste runs and disassembles RV32I ELF guests: one binary with
// "run" and "disasm" subcommands.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/urfave/cli/v2"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/bassosimone/fuste/internal/channel"
	"github.com/bassosimone/fuste/internal/config"
	"github.com/bassosimone/fuste/internal/control"
	"github.com/bassosimone/fuste/internal/elfload"
	"github.com/bassosimone/fuste/internal/machine"
	"github.com/bassosimone/fuste/internal/metrics"
	"github.com/bassosimone/fuste/internal/ringlog"
	"github.com/bassosimone/fuste/internal/rv32i"
	"github.com/bassosimone/fuste/internal/signerstore"
	"github.com/bassosimone/fuste/internal/systems"
	"github.com/bassosimone/fuste/internal/transaction"
)

func main() {
	log.SetFlags(0)
	app := &cli.App{
		Name:  "fuste",
		Usage: "a bare-metal RV32I interpreter",
		Commands: []*cli.Command{
			runCommand(),
			disasmCommand(),
		},
	}
	if err := app.Run(os.Args); err != nil {
		log.Fatalf("fuste: %+v", err)
	}
}

func commonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "config", Usage: "path to a YAML config file"},
		&cli.UintFlag{Name: "max-ticks", Usage: "stop after this many steps (0 = unbounded)"},
		&cli.StringFlag{Name: "metrics-addr", Usage: "expose Prometheus metrics on this address"},
		&cli.StringFlag{Name: "log-file", Usage: "write the debug trace to this file instead of stdout"},
		&cli.BoolFlag{Name: "debug", Usage: "trace every decoded instruction"},
	}
}

func loadConfig(c *cli.Context) config.Config {
	cfg := config.Default()
	if path := c.String("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			log.Fatalf("fuste: %s", err)
		}
		cfg = loaded
	}
	if c.IsSet("max-ticks") {
		cfg.MaxTicks = int(c.Uint("max-ticks"))
	}
	if c.IsSet("metrics-addr") {
		cfg.MetricsAddr = c.String("metrics-addr")
	}
	if c.IsSet("log-file") {
		cfg.LogFile = c.String("log-file")
	}
	if c.Bool("debug") {
		cfg.Debug = true
	}
	return cfg
}

func runCommand() *cli.Command {
	return &cli.Command{
		Name:      "run",
		Usage:     "boot an ELF guest and run it to completion",
		ArgsUsage: "<elf-file>",
		Flags:     commonFlags(),
		Action: func(c *cli.Context) error {
			if c.Args().Len() != 1 {
				return cli.Exit("usage: fuste run [flags] <elf-file>", 1)
			}
			return runGuest(c, c.Args().Get(0))
		},
	}
}

func runGuest(c *cli.Context, path string) error {
	cfg := loadConfig(c)

	reg := metrics.New()
	if cfg.MetricsAddr != "" {
		go func() {
			if err := reg.Serve(cfg.MetricsAddr); err != nil {
				log.Printf("fuste: metrics server: %s", err)
			}
		}()
	}

	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	m := machine.New(cfg.MemorySize)
	entry, err := elfload.Load(file, m.Memory())
	if err != nil {
		return err
	}
	m.Registers().SetPC(entry)

	var ring *ringlog.Buffer
	logFlags := systems.LogNone
	if cfg.Debug {
		ring = ringlog.New(64)
		logFlags = systems.LogDecode
	}
	var traceOut *lumberjack.Logger
	if cfg.LogFile != "" {
		traceOut = &lumberjack.Logger{Filename: cfg.LogFile, MaxSize: 10, MaxBackups: 3}
		defer traceOut.Close()
	}

	registry := channel.NewRegistry()
	registry.Observer = func(op string, code channel.StatusCode) {
		reg.ObserveChannel(op, code.ToI32())
	}
	registry.Register(channel.SystemIDStdout, &stdoutChannel{})
	store := signerstore.NewService(signerstore.HartSelf, 8, 32, 32, signerstore.DefaultTypeNameBytes, signerstore.DefaultValueBytes)
	registry.Register(channel.SystemIDSignerStore, store)
	registry.Register(channel.SystemIDTransactionScheme, transaction.NewSchemeService(transaction.Scheme{AddressLen: 32, PubKeyLen: 32}))
	registry.Register(channel.SystemIDTransactionID, transaction.NewIDService(make([]byte, transaction.DefaultIDBytes)))

	var exitStatus systems.ExitStatus
	dispatcher := &systems.EcallDispatcher{
		Exit:         &systems.StdExitDispatcher{Status: &exitStatus},
		Write:        &systems.StdWriteDispatcher{Stdout: os.Stdout},
		OpenChannel:  systems.NewOpenChannelDispatcher(registry),
		CheckChannel: systems.NewCheckChannelDispatcher(registry),
		Observer:     reg.ObserveEcall,
	}

	var hook control.Hook = &systems.InterruptHandler{
		Inner:  &rv32i.Rv32iComputer{},
		Ecall:  dispatcher,
		Ebreak: systems.TerminatingEbreakHandler{},
	}
	hook = &systems.TickHandler{Inner: hook, MaxTicks: cfg.MaxTicks}
	lilbug := &systems.LilBugSystem{Inner: hook, LogFlags: logFlags, Ring: ring}
	if traceOut != nil {
		lilbug.Out = traceOut
	}
	hook = &metrics.TickCounter{Inner: lilbug, Counter: reg.Ticks}

	for {
		cf, err := hook.Tick(m)
		if err != nil {
			return err
		}
		if cf == control.Break {
			break
		}
	}

	log.Printf("fuste: exit status %d", exitStatus)
	if exitStatus != systems.ExitStatusSuccess {
		os.Exit(1)
	}
	return nil
}

func disasmCommand() *cli.Command {
	return &cli.Command{
		Name:      "disasm",
		Usage:     "disassemble an ELF guest's text segment",
		ArgsUsage: "<elf-file>",
		Action: func(c *cli.Context) error {
			if c.Args().Len() != 1 {
				return cli.Exit("usage: fuste disasm <elf-file>", 1)
			}
			return disassemble(c.Args().Get(0))
		},
	}
}

func disassemble(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	mem := machine.NewMemory(1 << 24)
	entry, err := elfload.Load(file, mem)
	if err != nil {
		return err
	}

	addr := entry
	for {
		word, err := mem.ReadWord(addr)
		if err != nil || word == 0 {
			break
		}
		instr, err := rv32i.Decode(word, addr)
		if err != nil {
			fmt.Printf("%08x: %08x (invalid)\n", addr, word)
		} else {
			fmt.Printf("%08x: %08x %s\n", addr, word, instr.String())
		}
		addr += 4
	}
	return nil
}

// stdoutChannel implements channel.Handler for SystemIDStdout: Open writes
// readBuf straight to stdout and completes synchronously with no response
// bytes.
type stdoutChannel struct{}

func (s *stdoutChannel) Open(readBuf, writeBuf []byte) (channel.Status, error) {
	if _, err := os.Stdout.Write(readBuf); err != nil {
		return channel.Status{Code: channel.StatusSystemError}, err
	}
	return channel.Status{Code: channel.StatusSuccess}, nil
}

func (s *stdoutChannel) Check(readBuf, writeBuf []byte) (channel.Status, error) {
	return channel.Status{Code: channel.StatusSuccess}, nil
}
