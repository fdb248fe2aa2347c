package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/example/gobar/internal/bar"
	"github.com/example/gobar/internal/config"
	"github.com/example/gobar/internal/ipc"
	"github.com/example/gobar/internal/logging"
	"github.com/example/gobar/internal/protocol"
	"github.com/example/gobar/internal/security"
)

func main() {
	log.SetFlags(0)

	if os.Getenv("GOBAR_DEBUG") != "" {
		logging.EnableDebug()
	}

	key := config.ResolveKey()
	args := os.Args[1:]

	if len(args) == 0 {
		if err := runBar(key); err != nil && !errors.Is(err, context.Canceled) {
			log.Fatalf("bar exited with error: %v", err)
		}
		return
	}

	var err error
	switch normalizeCommand(args[0]) {
	case "run":
		err = runBar(key)
		if errors.Is(err, context.Canceled) {
			err = nil
		}
	case "validate":
		err = handleValidate(key)
	case "sections":
		err = handleSections(key)
	case "ctl":
		err = handleCtl(key, args[1:])
	default:
		err = fmt.Errorf("unknown command: %s", args[0])
	}
	if err != nil {
		log.Fatalf("%v", err)
	}
}

func runBar(key string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	b := bar.New(key)

	if err := watchConfig(ctx, b); err != nil {
		log.Printf("configuration watch disabled: %v", err)
	}

	return b.Run(ctx)
}

func handleValidate(key string) error {
	cfg, err := config.Load(key)
	if err != nil {
		return err
	}

	total := len(cfg.Menu.Start) + len(cfg.Menu.Center) + len(cfg.Menu.End)
	fmt.Printf("Configuration valid: %d top-level entries\n", total)
	return nil
}

func handleSections(key string) error {
	cfg, err := config.Load(key)
	if err != nil {
		return err
	}

	slots := []struct {
		name    string
		entries []config.MenuEntry
	}{
		{"start", cfg.Menu.Start},
		{"center", cfg.Menu.Center},
		{"end", cfg.Menu.End},
	}

	fmt.Printf("%-8s %-10s %-20s %s\n", "Slot", "Type", "Label", "Categories")
	for _, slot := range slots {
		for _, entry := range slot.entries {
			label := entry.Label
			if entry.Type == config.EntryXdgOther {
				label = config.OtherLabel
			}
			fmt.Printf("%-8s %-10s %-20s %s\n", slot.name, entry.Type, label, strings.Join(entry.Categories, ";"))
		}
	}
	return nil
}

func handleCtl(key string, args []string) error {
	if len(args) == 0 {
		return errors.New("no control command provided; one of: get, show, hide, reload, quit")
	}

	command, err := controlCommand(args[0])
	if err != nil {
		return err
	}

	token := security.ResolveControlToken(key)
	if token == "" {
		return errors.New("control token could not be resolved; set GOBAR_CTL_TOKEN or a configuration key")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	endpoint := ipc.DefaultEndpoint()
	conn, err := endpoint.DialContext(ctx)
	if err != nil {
		return fmt.Errorf("connect to %s: %w", endpoint, err)
	}
	defer conn.Close()

	if err := json.NewEncoder(conn).Encode(protocol.Request{Token: token, Command: command}); err != nil {
		return fmt.Errorf("send request: %w", err)
	}

	var resp protocol.Response
	if err := json.NewDecoder(conn).Decode(&resp); err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.Error != "" {
		return fmt.Errorf("bar reported error: %s", resp.Error)
	}

	if command == protocol.CommandMenuGet {
		printSlots(resp)
		return nil
	}

	fmt.Println(resp.Status)
	return nil
}

func controlCommand(name string) (string, error) {
	switch normalizeCommand(name) {
	case "get", protocol.CommandMenuGet:
		return protocol.CommandMenuGet, nil
	case "show", protocol.CommandBarShow:
		return protocol.CommandBarShow, nil
	case "hide", protocol.CommandBarHide:
		return protocol.CommandBarHide, nil
	case "reload", protocol.CommandBarReload:
		return protocol.CommandBarReload, nil
	case "quit", protocol.CommandBarQuit:
		return protocol.CommandBarQuit, nil
	default:
		return "", fmt.Errorf("unknown control command: %s", name)
	}
}

func printSlots(resp protocol.Response) {
	fmt.Printf("module %s\n", resp.Module)
	for _, slot := range resp.Slots {
		if len(slot.Entries) == 0 {
			continue
		}
		fmt.Printf("[%s]\n", slot.Slot)
		for _, entry := range slot.Entries {
			kind := "section"
			if entry.Custom {
				kind = "custom"
			}
			fmt.Printf("  %-20s %-8s %d applications\n", entry.Label, kind, len(entry.Applications))
		}
	}
}

func normalizeCommand(arg string) string {
	trimmed := strings.TrimLeft(arg, "-/")
	return strings.ToLower(trimmed)
}
