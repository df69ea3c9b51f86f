package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/eclipse/paho.mqtt.golang"
	"golang.org/x/sync/errgroup"

	"github.com/matt-g-everett/motive/api"
	"github.com/matt-g-everett/motive/config"
	"github.com/matt-g-everett/motive/engine"
	"github.com/matt-g-everett/motive/stagger"
	"github.com/matt-g-everett/motive/stream"
	"github.com/matt-g-everett/motive/style"
)

type app struct {
	Config       *config.Document
	Client       mqtt.Client
	Registry     *style.Registry
	Engine       *engine.Engine
	Orchestrator *stagger.Orchestrator
	Streamer     *stream.Streamer
	Api          *api.Api
}

func newApp() *app {
	a := new(app)
	return a
}

func (a *app) handleOnConnect(client mqtt.Client) {
	log.Println("Connected")
	a.Streamer.Subscribe()
}

// runGroups executes every declared group once, in declaration order.
func (a *app) runGroups(ctx context.Context) error {
	for _, gc := range a.Config.Groups {
		sc, ok := a.Config.SlotByID(gc.Slot)
		if !ok {
			log.Printf("group %s references unknown slot %s, skipping", gc.ID, gc.Slot)
			continue
		}
		behavior, err := config.ParseBehavior(gc.Behavior)
		if err != nil {
			log.Printf("group %s: %v, playing forward", gc.ID, err)
		}

		a.Orchestrator.Initialize(gc.ID, gc.Elements, gc.StaggerConfig(), stagger.Forward)
		unsubscribe, err := a.Orchestrator.OnProgressUpdate(gc.ID, func(master float64) {
			log.Printf("group %s master progress %.3f", gc.ID, master)
		})
		if err != nil {
			return err
		}

		err = a.Orchestrator.Execute(ctx, gc.ID, sc.Slot(), behavior)
		unsubscribe()
		a.Orchestrator.Cleanup(gc.ID)
		if err != nil {
			return err
		}
	}
	return nil
}

func (a *app) run(ctx context.Context) error {
	if token := a.Client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return a.Engine.Run(ctx) })
	g.Go(func() error { return a.Streamer.Run(ctx) })
	g.Go(func() error { return a.Api.Serve() })
	g.Go(func() error { return a.runGroups(ctx) })
	return g.Wait()
}

func (a *app) readConfig(configPath string) {
	doc, err := config.Load(configPath)
	if err != nil {
		panic(err)
	}
	a.Config = doc
}

func main() {
	mqtt.ERROR = log.New(log.Writer(), "", 0)

	// Parse command line parameters
	configPath := flag.String("config", "config.yaml", "YAML config file.")
	flag.Parse()

	a := newApp()
	a.readConfig(*configPath)
	log.Printf("Config: %d elements, %d slots, %d groups",
		len(a.Config.Elements), len(a.Config.Slots), len(a.Config.Groups))

	options := mqtt.NewClientOptions().
		AddBroker(a.Config.Stream.Mqtt.URL).
		SetClientID("motive").
		SetUsername(a.Config.Stream.Mqtt.Username).
		SetPassword(a.Config.Stream.Mqtt.Password).
		SetKeepAlive(30 * time.Second).
		SetPingTimeout(5 * time.Second).
		SetOnConnectHandler(a.handleOnConnect)
	client := mqtt.NewClient(options)

	a.Client = client
	a.Registry = a.Config.BuildRegistry()
	a.Engine = engine.New(a.Registry)
	a.Orchestrator = stagger.New(a.Engine)
	a.Streamer = stream.NewStreamer(a.Config.Stream, client, a.Registry)

	addr := a.Config.HTTPAddr
	if addr == "" {
		addr = ":3000"
	}
	a.Api = api.NewApi(addr, a.Engine, a.Registry)

	if err := a.run(context.Background()); err != nil {
		log.Fatal(err)
	}
}
