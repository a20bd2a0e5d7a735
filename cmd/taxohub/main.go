// Command taxohub runs a reference taxonomy hub.
//
// The hub hosts the typed device registry, attaches the bundled
// example adapters (clock, light, thermostat), optionally persists
// tags and the activity trace, and announces itself over mDNS.
//
// Usage:
//
//	taxohub [flags]
//
// Flags:
//
//	-config string     Configuration file path (YAML)
//	-name string       Hub instance name (default "taxohub")
//	-state-dir string  Directory for persistent state (tags, activity log)
//	-reset             Clear persisted tags before starting
//	-log-level string  Log level: debug, info, warn, error (default "info")
//	-interactive       Enable interactive command mode
//	-advertise         Announce the hub over mDNS
//	-port int          Advertised service port (default 5650)
//	-version           Print the protocol version and exit
//
// Examples:
//
//	# Start a hub with the example adapters and an interactive prompt
//	taxohub -name "Living Room" -interactive
//
//	# Start with persistence (tags survive restarts)
//	taxohub -state-dir /var/lib/taxohub -advertise
//
//	# Reset persisted tags
//	taxohub -state-dir /var/lib/taxohub -reset
//
// Interactive Commands:
//
//	nodes       - List nodes
//	channels    - List getter and setter channels
//	tag/untag   - Edit tags on nodes and channels
//	get/put     - Read and write channel values
//	watch       - Subscribe to live channel events
//	discover    - Find other hubs on the network
//	quit        - Exit the hub
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/fabricedesre/taxonomy/cmd/taxohub/interactive"
	"github.com/fabricedesre/taxonomy/pkg/discovery"
	"github.com/fabricedesre/taxonomy/pkg/examples"
	"github.com/fabricedesre/taxonomy/pkg/hub"
	taxlog "github.com/fabricedesre/taxonomy/pkg/log"
	"github.com/fabricedesre/taxonomy/pkg/persistence"
	"github.com/fabricedesre/taxonomy/pkg/version"
)

// Config holds the hub configuration. File values apply only where the
// matching flag was not set on the command line.
// It implements interactive.HubConfig.
type Config struct {
	ConfigFile   string `yaml:"-"`
	Name         string `yaml:"name"`
	StateDirPath string `yaml:"state_dir"`
	Reset        bool   `yaml:"-"`
	LogLevel     string `yaml:"log_level"`
	Interactive  bool   `yaml:"-"`
	Advertise    bool   `yaml:"advertise"`
	Port         int    `yaml:"port"`
	Description  string `yaml:"description"`
	ShowVersion  bool   `yaml:"-"`
}

// StateDir implements interactive.HubConfig.
func (c *Config) StateDir() string { return c.StateDirPath }

// Advertising implements interactive.HubConfig.
func (c *Config) Advertising() bool { return c.Advertise }

var (
	config Config
	h      *hub.Hub
	hubID  string
)

func init() {
	flag.StringVar(&config.ConfigFile, "config", "", "Configuration file path (YAML)")
	flag.StringVar(&config.Name, "name", "taxohub", "Hub instance name")
	flag.StringVar(&config.StateDirPath, "state-dir", "", "Directory for persistent state")
	flag.BoolVar(&config.Reset, "reset", false, "Clear persisted tags before starting")
	flag.StringVar(&config.LogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	flag.BoolVar(&config.Interactive, "interactive", false, "Enable interactive command mode")
	flag.BoolVar(&config.Advertise, "advertise", false, "Announce the hub over mDNS")
	flag.IntVar(&config.Port, "port", discovery.DefaultPort, "Advertised service port")
	flag.StringVar(&config.Description, "description", "", "Free-form hub description for discovery")
	flag.BoolVar(&config.ShowVersion, "version", false, "Print the protocol version and exit")
}

func main() {
	flag.Parse()

	if config.ShowVersion {
		fmt.Println(version.Current)
		return
	}

	if config.ConfigFile != "" {
		if err := applyConfigFile(config.ConfigFile); err != nil {
			log.Fatalf("Failed to load config file: %v", err)
		}
	}

	setupLogging(config.LogLevel)

	log.Println("Taxonomy Reference Hub")
	log.Println("======================")
	log.Printf("Hub name: %s", config.Name)
	log.Printf("Protocol version: %s", version.Current)

	hubID = uuid.NewString()

	// Set up persistence if state-dir is provided
	var store *persistence.TagStore
	var fileLogger *taxlog.FileLogger
	if config.StateDirPath != "" {
		log.Printf("Using state directory: %s", config.StateDirPath)
		if err := os.MkdirAll(config.StateDirPath, 0o755); err != nil {
			log.Fatalf("Failed to create state directory: %v", err)
		}

		store = persistence.NewTagStore(filepath.Join(config.StateDirPath, "tags.json"))
		if config.Reset {
			log.Println("Resetting persisted tags...")
			if err := store.Clear(); err != nil {
				log.Printf("Warning: Failed to clear tags: %v", err)
			}
		}

		var err error
		fileLogger, err = taxlog.NewFileLogger(filepath.Join(config.StateDirPath, "activity.tlog"))
		if err != nil {
			log.Fatalf("Failed to open activity log: %v", err)
		}
		defer fileLogger.Close()
	}

	h = hub.New(hub.Config{
		Name:     config.Name,
		Logger:   buildHubLogger(fileLogger),
		TagStore: store,
	})
	defer h.Close()

	if err := h.LoadTags(); err != nil {
		log.Printf("Warning: Failed to load persisted tags: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Attach the example adapters and start their loops.
	startAdapters(ctx)

	// Announce over mDNS if requested.
	var adv *discovery.Advertiser
	if config.Advertise {
		adv = discovery.NewAdvertiser(discovery.DefaultAdvertiserConfig())
		if err := adv.Advertise(hubInfo()); err != nil {
			log.Printf("Warning: Failed to advertise: %v", err)
			adv = nil
		} else {
			log.Printf("Advertising as %q on port %d", config.Name, config.Port)
			defer adv.Stop()
			go runAdvertiserRefresh(ctx, adv)
		}
	}

	// Run interactive mode or wait for signal
	if config.Interactive {
		ic, err := interactive.New(h, &config)
		if err != nil {
			log.Fatalf("Failed to create interactive console: %v", err)
		}
		// Redirect log output through readline to avoid interfering with input
		log.SetOutput(ic.Stdout())
		go ic.Run(ctx, cancel)
	}

	// Wait for shutdown signal or context cancellation
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Printf("Received signal: %v", sig)
	case <-ctx.Done():
		// Context was cancelled (e.g., by interactive quit command)
	}

	log.Println("Shutting down...")
	cancel()
	h.Close()
	log.Println("Goodbye!")
}

// applyConfigFile loads the YAML file and applies its values for every
// setting the command line left untouched.
func applyConfigFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var fc Config
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if !set["name"] && fc.Name != "" {
		config.Name = fc.Name
	}
	if !set["state-dir"] && fc.StateDirPath != "" {
		config.StateDirPath = fc.StateDirPath
	}
	if !set["log-level"] && fc.LogLevel != "" {
		config.LogLevel = fc.LogLevel
	}
	if !set["advertise"] {
		config.Advertise = config.Advertise || fc.Advertise
	}
	if !set["port"] && fc.Port != 0 {
		config.Port = fc.Port
	}
	if !set["description"] && fc.Description != "" {
		config.Description = fc.Description
	}
	return nil
}

func setupLogging(level string) {
	log.SetFlags(log.Ltime | log.Lmicroseconds)

	switch level {
	case "debug":
		log.SetFlags(log.Ltime | log.Lmicroseconds | log.Lshortfile)
	case "warn", "error":
		log.SetFlags(log.Ltime)
	}
}

// buildHubLogger assembles the activity trace destination. Debug level
// mirrors every event to the console via slog; the file logger, when
// present, always gets the full stream.
func buildHubLogger(fileLogger *taxlog.FileLogger) taxlog.Logger {
	var console, file taxlog.Logger
	if config.LogLevel == "debug" {
		console = taxlog.NewSlogAdapter(slog.Default())
	}
	if fileLogger != nil {
		file = fileLogger
	}
	multi := taxlog.NewMultiLogger(console, file)
	if multi.Len() == 0 {
		return nil
	}
	return multi
}

func startAdapters(ctx context.Context) {
	clock := examples.NewClock(examples.ClockConfig{})
	if err := clock.Attach(h); err != nil {
		log.Fatalf("Failed to attach clock: %v", err)
	}
	go func() {
		if err := clock.Run(ctx); err != nil && ctx.Err() == nil {
			log.Printf("Clock loop stopped: %v", err)
		}
	}()

	light := examples.NewLight(examples.LightConfig{})
	if err := light.Attach(h); err != nil {
		log.Fatalf("Failed to attach light: %v", err)
	}

	thermostat := examples.NewThermostat(examples.ThermostatConfig{
		Initial: 18,
		Target:  21,
	})
	if err := thermostat.Attach(h); err != nil {
		log.Fatalf("Failed to attach thermostat: %v", err)
	}
	go func() {
		if err := thermostat.Run(ctx); err != nil && ctx.Err() == nil {
			log.Printf("Thermostat loop stopped: %v", err)
		}
	}()

	log.Printf("Adapters attached: %d nodes, %d getters, %d setters",
		h.NodeCount(), h.GetterCount(), h.SetterCount())
}

func hubInfo() *discovery.HubInfo {
	return &discovery.HubInfo{
		Name:        config.Name,
		HubID:       hubID,
		Version:     version.Current,
		Port:        uint16(config.Port),
		NodeCount:   h.NodeCount(),
		GetterCount: h.GetterCount(),
		SetterCount: h.SetterCount(),
		Description: config.Description,
	}
}

// runAdvertiserRefresh keeps the advertised entity counts roughly
// current. Counts in TXT records are advisory, so a slow refresh is
// fine.
func runAdvertiserRefresh(ctx context.Context, adv *discovery.Advertiser) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := adv.Update(hubInfo()); err != nil {
				log.Printf("Warning: Failed to refresh advertisement: %v", err)
			}
		}
	}
}
