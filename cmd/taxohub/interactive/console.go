// Package interactive provides the interactive command-line interface
// for the taxonomy hub.
package interactive

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/chzyer/readline"

	"github.com/fabricedesre/taxonomy/pkg/api"
	"github.com/fabricedesre/taxonomy/pkg/discovery"
	"github.com/fabricedesre/taxonomy/pkg/hub"
	"github.com/fabricedesre/taxonomy/pkg/model"
	"github.com/fabricedesre/taxonomy/pkg/selector"
	"github.com/fabricedesre/taxonomy/pkg/value"
	"github.com/fabricedesre/taxonomy/pkg/version"
)

// HubConfig provides configuration information to the interactive
// console. This interface allows the interactive layer to access hub
// settings without depending on the main package's config structure.
type HubConfig interface {
	// StateDir returns the persistent state directory, or "".
	StateDir() string

	// Advertising reports whether the hub announces itself over mDNS.
	Advertising() bool
}

// watchEntry is one live subscription started from the prompt.
type watchEntry struct {
	id    int
	spec  string
	guard api.WatchGuard
}

// Console handles interactive mode for taxohub.
type Console struct {
	hub    *hub.Hub
	config HubConfig
	rl     *readline.Instance

	watches  []*watchEntry
	watchSeq int

	// eventSeen is bumped from watch callbacks, which run outside the
	// command loop goroutine.
	eventSeen atomic.Int64
}

// New creates a new interactive console.
func New(h *hub.Hub, cfg HubConfig) (*Console, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "taxo> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}

	return &Console{
		hub:    h,
		config: cfg,
		rl:     rl,
	}, nil
}

// Stdout returns a writer that properly coordinates with the readline
// input. Use this for log output to avoid interfering with the prompt.
func (c *Console) Stdout() io.Writer {
	return c.rl.Stdout()
}

// Run starts the interactive command loop.
func (c *Console) Run(ctx context.Context, cancel context.CancelFunc) {
	defer c.rl.Close()
	defer c.releaseAllWatches()

	c.printHelp()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := c.rl.Readline()
		if err != nil {
			// EOF or interrupt
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(c.rl.Stdout(), "Exiting...")
			cancel()
			return
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		parts := strings.Fields(input)
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		switch cmd {
		case "help", "?":
			c.printHelp()

		case "nodes", "n":
			c.cmdNodes()

		case "channels", "ch":
			c.cmdChannels(args)

		case "adapters":
			c.cmdAdapters()

		case "tag":
			c.cmdTag(args, true)

		case "untag":
			c.cmdTag(args, false)

		case "get", "g":
			c.cmdGet(ctx, args)

		case "put", "p":
			c.cmdPut(ctx, args)

		case "watch", "w":
			c.cmdWatch(args)

		case "watches":
			c.cmdWatches()

		case "unwatch":
			c.cmdUnwatch(args)

		case "discover":
			c.cmdDiscover(ctx, args)

		case "status":
			c.cmdStatus()

		case "version":
			fmt.Fprintln(c.rl.Stdout(), version.Current)

		case "quit", "exit", "q":
			fmt.Fprintln(c.rl.Stdout(), "Exiting...")
			cancel()
			return

		default:
			fmt.Fprintf(c.rl.Stdout(), "Unknown command: %s (type 'help' for commands)\n", cmd)
		}
	}
}

func (c *Console) printHelp() {
	fmt.Fprintln(c.rl.Stdout(), `
Taxonomy Hub Commands:
  Inspection:
    nodes                       - List nodes with their tags
    channels [node-id]          - List channels (all, or one node's)
    adapters                    - List registered adapters

  Tags:
    tag <entity> <sel> <tag...>   - Add tags (entity: node, getter, setter)
    untag <entity> <sel> <tag...> - Remove tags

  Values:
    get [sel]                   - Read matching getter channels
    put <sel> <value>           - Write to matching setter channels

  Live Watches:
    watch [sel]                 - Subscribe to matching channels
    watches                     - List active subscriptions
    unwatch <n>                 - Release a subscription

  Network:
    discover [seconds]          - Find other hubs on the network

  General:
    status                      - Show hub status
    version                     - Show protocol version
    help                        - Show this help
    quit                        - Exit hub

  Selector Format:
    <id>          - Match a single entity by id
    tag=<name>    - Match entities carrying a tag
    kind=<Kind>   - Match channels by kind, e.g. kind=OnOff
    node=<id>     - Match channels attached to a node
    all           - Match everything

  Value Format:
    on/off/true/false, 21.5C, 70F, 90s/5m (duration),
    2016-01-02T15:04:05Z (timestamp), unit, anything else is a string`)
}

// cmdNodes handles the nodes command.
func (c *Console) cmdNodes() {
	nodes := c.hub.GetNodes([]selector.NodeSelector{{}})
	if len(nodes) == 0 {
		fmt.Fprintln(c.rl.Stdout(), "No nodes")
		return
	}

	fmt.Fprintf(c.rl.Stdout(), "\nNodes (%d):\n", len(nodes))
	fmt.Fprintln(c.rl.Stdout(), "-------------------------------------------")
	for _, n := range nodes {
		fmt.Fprintf(c.rl.Stdout(), "  %s\n", n.ID())
		if tags := n.Tags(); len(tags) > 0 {
			fmt.Fprintf(c.rl.Stdout(), "      Tags: %s\n", strings.Join(tags, ", "))
		}
		fmt.Fprintf(c.rl.Stdout(), "      Channels: %d in, %d out\n",
			len(n.Getters()), len(n.Setters()))
	}
	fmt.Fprintln(c.rl.Stdout())
}

// cmdChannels handles the channels command.
func (c *Console) cmdChannels(args []string) {
	getterSel := selector.GetterSelector{}
	setterSel := selector.SetterSelector{}
	if len(args) > 0 {
		getterSel = getterSel.WithParent(model.NodeID(args[0]))
		setterSel = setterSel.WithParent(model.NodeID(args[0]))
	}

	getters := c.hub.GetGetterChannels([]selector.GetterSelector{getterSel})
	setters := c.hub.GetSetterChannels([]selector.SetterSelector{setterSel})

	if len(getters) == 0 && len(setters) == 0 {
		fmt.Fprintln(c.rl.Stdout(), "No channels")
		return
	}

	fmt.Fprintf(c.rl.Stdout(), "\nGetter Channels (%d):\n", len(getters))
	fmt.Fprintln(c.rl.Stdout(), "-------------------------------------------")
	for _, ch := range getters {
		c.printChannel(ch.ID(), ch.Node(), ch.Kind(), ch.Tags(), ch.Mechanism().Updated())
	}

	fmt.Fprintf(c.rl.Stdout(), "\nSetter Channels (%d):\n", len(setters))
	fmt.Fprintln(c.rl.Stdout(), "-------------------------------------------")
	for _, ch := range setters {
		c.printChannel(ch.ID(), ch.Node(), ch.Kind(), ch.Tags(), ch.Mechanism().Updated())
	}
	fmt.Fprintln(c.rl.Stdout())
}

func (c *Console) printChannel(id model.ChannelID, node model.NodeID, kind model.ServiceKind, tags []string, updated value.TimeStamp) {
	fmt.Fprintf(c.rl.Stdout(), "  %s\n", id)
	fmt.Fprintf(c.rl.Stdout(), "      Node: %s   Kind: %s\n", node, kind)
	if len(tags) > 0 {
		fmt.Fprintf(c.rl.Stdout(), "      Tags: %s\n", strings.Join(tags, ", "))
	}
	if !updated.IsZero() {
		fmt.Fprintf(c.rl.Stdout(), "      Updated: %s\n", updated.Time().Format("15:04:05"))
	}
}

// cmdAdapters handles the adapters command.
func (c *Console) cmdAdapters() {
	adapters := c.hub.Adapters()
	if len(adapters) == 0 {
		fmt.Fprintln(c.rl.Stdout(), "No adapters registered")
		return
	}
	fmt.Fprintf(c.rl.Stdout(), "Adapters (%d): %s\n", len(adapters), strings.Join(adapters, ", "))
}

// cmdTag handles the tag and untag commands.
func (c *Console) cmdTag(args []string, add bool) {
	verb := "tag"
	if !add {
		verb = "untag"
	}
	if len(args) < 3 {
		fmt.Fprintf(c.rl.Stdout(), "Usage: %s <node|getter|setter> <sel> <tag...>\n", verb)
		fmt.Fprintf(c.rl.Stdout(), "  Example: %s getter kind=OnOff lights\n", verb)
		return
	}

	entity := strings.ToLower(args[0])
	spec := args[1]
	tags := args[2:]

	var matched int
	switch entity {
	case "node", "nodes":
		sel, err := parseNodeSelector(spec)
		if err != nil {
			fmt.Fprintf(c.rl.Stdout(), "Invalid selector: %v\n", err)
			return
		}
		if add {
			matched = c.hub.AddNodeTags([]selector.NodeSelector{sel}, tags)
		} else {
			matched = c.hub.RemoveNodeTags([]selector.NodeSelector{sel}, tags)
		}

	case "getter", "getters", "in":
		sel, err := parseGetterSelector(spec)
		if err != nil {
			fmt.Fprintf(c.rl.Stdout(), "Invalid selector: %v\n", err)
			return
		}
		if add {
			matched = c.hub.AddGetterTags([]selector.GetterSelector{sel}, tags)
		} else {
			matched = c.hub.RemoveGetterTags([]selector.GetterSelector{sel}, tags)
		}

	case "setter", "setters", "out":
		sel, err := parseSetterSelector(spec)
		if err != nil {
			fmt.Fprintf(c.rl.Stdout(), "Invalid selector: %v\n", err)
			return
		}
		if add {
			matched = c.hub.AddSetterTags([]selector.SetterSelector{sel}, tags)
		} else {
			matched = c.hub.RemoveSetterTags([]selector.SetterSelector{sel}, tags)
		}

	default:
		fmt.Fprintf(c.rl.Stdout(), "Unknown entity %q (use: node, getter, setter)\n", args[0])
		return
	}

	fmt.Fprintf(c.rl.Stdout(), "Matched %d entities\n", matched)
}

// cmdGet handles the get command.
func (c *Console) cmdGet(ctx context.Context, args []string) {
	spec := "all"
	if len(args) > 0 {
		spec = args[0]
	}
	sel, err := parseGetterSelector(spec)
	if err != nil {
		fmt.Fprintf(c.rl.Stdout(), "Invalid selector: %v\n", err)
		return
	}

	readCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	results := c.hub.GetChannelValues(readCtx, []selector.GetterSelector{sel})
	cancel()

	if len(results) == 0 {
		fmt.Fprintln(c.rl.Stdout(), "No matching getter channels")
		return
	}
	for _, res := range results {
		if res.Err != nil {
			fmt.Fprintf(c.rl.Stdout(), "  %s: error: %v\n", res.ID, res.Err)
			continue
		}
		fmt.Fprintf(c.rl.Stdout(), "  %s = %s\n", res.ID, formatValue(res.Value))
	}
}

// cmdPut handles the put command.
func (c *Console) cmdPut(ctx context.Context, args []string) {
	if len(args) < 2 {
		fmt.Fprintln(c.rl.Stdout(), "Usage: put <sel> <value>")
		fmt.Fprintln(c.rl.Stdout(), "  Example: put light-switch on")
		return
	}

	sel, err := parseSetterSelector(args[0])
	if err != nil {
		fmt.Fprintf(c.rl.Stdout(), "Invalid selector: %v\n", err)
		return
	}
	v := parseValue(strings.Join(args[1:], " "))

	writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	results := c.hub.PutChannelValues(writeCtx, []selector.SetterSelector{sel}, v)
	cancel()

	if len(results) == 0 {
		fmt.Fprintln(c.rl.Stdout(), "No matching setter channels")
		return
	}
	for _, res := range results {
		if res.Err != nil {
			fmt.Fprintf(c.rl.Stdout(), "  %s: error: %v\n", res.ID, res.Err)
			continue
		}
		fmt.Fprintf(c.rl.Stdout(), "  %s: OK\n", res.ID)
	}
}

// cmdWatch handles the watch command.
func (c *Console) cmdWatch(args []string) {
	spec := "all"
	if len(args) > 0 {
		spec = args[0]
	}
	sel, err := parseGetterSelector(spec)
	if err != nil {
		fmt.Fprintf(c.rl.Stdout(), "Invalid selector: %v\n", err)
		return
	}

	opts := []api.WatchOptions{
		api.NewWatchOptions().
			WithGetters(sel).
			WithWatchValues(true).
			WithWatchTopology(true),
	}
	guard, err := c.hub.Watch(opts, c.displayEvent)
	if err != nil {
		fmt.Fprintf(c.rl.Stdout(), "Watch failed: %v\n", err)
		return
	}

	c.watchSeq++
	c.watches = append(c.watches, &watchEntry{
		id:    c.watchSeq,
		spec:  spec,
		guard: guard,
	})
	fmt.Fprintf(c.rl.Stdout(), "Watch %d started (%s)\n", c.watchSeq, spec)
}

// cmdWatches handles the watches command.
func (c *Console) cmdWatches() {
	if len(c.watches) == 0 {
		fmt.Fprintln(c.rl.Stdout(), "No active watches")
		return
	}
	for _, w := range c.watches {
		fmt.Fprintf(c.rl.Stdout(), "  %d: %s\n", w.id, w.spec)
	}
}

// cmdUnwatch handles the unwatch command.
func (c *Console) cmdUnwatch(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(c.rl.Stdout(), "Usage: unwatch <n>")
		fmt.Fprintln(c.rl.Stdout(), "  Use 'watches' to list subscription numbers")
		return
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		fmt.Fprintf(c.rl.Stdout(), "Invalid watch number: %v\n", err)
		return
	}

	for i, w := range c.watches {
		if w.id == id {
			w.guard.Release()
			c.watches = append(c.watches[:i], c.watches[i+1:]...)
			fmt.Fprintf(c.rl.Stdout(), "Watch %d released\n", id)
			return
		}
	}
	fmt.Fprintf(c.rl.Stdout(), "No watch %d\n", id)
}

func (c *Console) releaseAllWatches() {
	for _, w := range c.watches {
		w.guard.Release()
	}
	c.watches = nil
}

// displayEvent prints a watch event above the prompt.
func (c *Console) displayEvent(ev api.WatchEvent) {
	c.eventSeen.Add(1)

	var desc string
	switch ev.Kind {
	case api.EventValue:
		desc = fmt.Sprintf("%s = %s", ev.From, formatValue(ev.Value))
	case api.EventGetterAdded:
		desc = fmt.Sprintf("%s entered the watched set", ev.From)
	case api.EventGetterRemoved:
		desc = fmt.Sprintf("%s left the watched set", ev.From)
	default:
		desc = fmt.Sprintf("%s (event %s)", ev.From, ev.Kind)
	}

	fmt.Fprintf(c.rl.Stdout(), "\n[%s] %s\n", time.Now().Format("15:04:05"), desc)
	c.rl.Refresh()
}

// cmdDiscover handles the discover command.
func (c *Console) cmdDiscover(ctx context.Context, args []string) {
	seconds := 5
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n <= 0 {
			fmt.Fprintf(c.rl.Stdout(), "Invalid duration: %s\n", args[0])
			return
		}
		seconds = n
	}

	fmt.Fprintf(c.rl.Stdout(), "Browsing for hubs (%ds)...\n", seconds)
	browseCtx, cancel := context.WithTimeout(ctx, time.Duration(seconds)*time.Second)
	defer cancel()

	browser := discovery.NewBrowser(discovery.BrowserConfig{})
	results, err := browser.Browse(browseCtx)
	if err != nil {
		fmt.Fprintf(c.rl.Stdout(), "Browse failed: %v\n", err)
		return
	}

	count := 0
	for svc := range results {
		count++
		compat := ""
		if !version.CompatibleWithCurrent(svc.Version) {
			compat = " [incompatible]"
		}
		fmt.Fprintf(c.rl.Stdout(), "  %s (v%s)%s at %s:%d\n",
			svc.InstanceName, svc.Version, compat, svc.Host, svc.Port)
		fmt.Fprintf(c.rl.Stdout(), "      Nodes: %d, Getters: %d, Setters: %d\n",
			svc.NodeCount, svc.GetterCount, svc.SetterCount)
		if svc.Description != "" {
			fmt.Fprintf(c.rl.Stdout(), "      %s\n", svc.Description)
		}
	}
	if count == 0 {
		fmt.Fprintln(c.rl.Stdout(), "No hubs found")
	}
}

// cmdStatus handles the status command.
func (c *Console) cmdStatus() {
	fmt.Fprintln(c.rl.Stdout(), "\nHub Status")
	fmt.Fprintln(c.rl.Stdout(), "-------------------------------------------")
	fmt.Fprintf(c.rl.Stdout(), "  Name:        %s\n", c.hub.Name())
	fmt.Fprintf(c.rl.Stdout(), "  Version:     %s\n", version.Current)
	fmt.Fprintf(c.rl.Stdout(), "  Nodes:       %d\n", c.hub.NodeCount())
	fmt.Fprintf(c.rl.Stdout(), "  Getters:     %d\n", c.hub.GetterCount())
	fmt.Fprintf(c.rl.Stdout(), "  Setters:     %d\n", c.hub.SetterCount())
	fmt.Fprintf(c.rl.Stdout(), "  Adapters:    %d\n", len(c.hub.Adapters()))
	fmt.Fprintf(c.rl.Stdout(), "  Watches:     %d (%d events seen)\n", len(c.watches), c.eventSeen.Load())

	stateDir := c.config.StateDir()
	if stateDir == "" {
		stateDir = "none"
	}
	fmt.Fprintf(c.rl.Stdout(), "  State dir:   %s\n", stateDir)

	advertising := "off"
	if c.config.Advertising() {
		advertising = "on"
	}
	fmt.Fprintf(c.rl.Stdout(), "  Advertising: %s\n", advertising)
	fmt.Fprintln(c.rl.Stdout())
}
