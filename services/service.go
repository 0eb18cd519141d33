// Package services runs the doorbell's long running parts: the kiosk, the
// web console, the mqtt bridge and the keypad reader. They share the globals
// set up here.
package services

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/pkg/errors"

	"github.com/smartklingel/klingel/audit"
	"github.com/smartklingel/klingel/codes"
	"github.com/smartklingel/klingel/config"
	"github.com/smartklingel/klingel/door"
	"github.com/smartklingel/klingel/eventlog"
	"github.com/smartklingel/klingel/hardware"
	"github.com/smartklingel/klingel/lib/graphite"
	"github.com/smartklingel/klingel/notify"
	"github.com/smartklingel/klingel/pubsub"
	"github.com/smartklingel/klingel/pubsub/mqtt"
	"github.com/smartklingel/klingel/util"
)

// Service interface
type Service interface {
	ID() string
	Run() error
}

var serviceMap map[string]Service = map[string]Service{}
var enabled []Service

var Config *config.Config

// Publisher and Subscriber are the mqtt broker when one is configured,
// otherwise the local Bus.
var Publisher pubsub.Publisher
var Subscriber pubsub.Subscriber

// Bus carries events that stay inside the process.
var Bus *pubsub.Bus

var Codes *codes.Store
var Log *eventlog.Log
var Board *hardware.Board
var Door *door.Door

// Audit and Metrics are nil when not configured.
var Audit *audit.Trail
var Metrics graphite.Sink

func SetupLogging() {
	log.SetFlags(log.Ltime | log.Lmicroseconds)
	log.SetOutput(os.Stdout)
}

// SetupBroker connects the Publisher and Subscriber.
func SetupBroker() error {
	Bus = pubsub.NewBus("local")
	if Config.Mqtt.Broker == "" {
		Publisher = Bus
		Subscriber = Bus
		return nil
	}
	broker, err := mqtt.NewBroker(Config.Mqtt.Broker, Config.Mqtt.Prefix)
	if err != nil {
		return err
	}
	Publisher = broker
	Subscriber = broker
	return nil
}

// Setup everything the services share, from conf.
func Setup(conf *config.Config) error {
	Config = conf
	Audit, Metrics = nil, nil
	if err := SetupBroker(); err != nil {
		return err
	}
	Codes = codes.New(conf.General.Codes)
	Log = eventlog.New(conf.General.Log, conf.Ntfy.Title, notify.FromConfig(conf))

	var err error
	Board, err = hardware.Open(conf.Hardware)
	if err != nil {
		return errors.Wrap(err, "hardware")
	}
	if conf.Audit.Path != "" {
		Audit, err = audit.Open(context.Background(), conf.Audit.Path)
		if err != nil {
			return err
		}
	}
	if conf.Graphite.Tcp != "" {
		Metrics = graphite.New(conf.Graphite.Tcp)
	}

	Door = door.New(Board.Door, conf.Door.Pulse.Duration)
	Door.Observe(doorOpened)
	return nil
}

func doorOpened(a door.Actuation) {
	fields := pubsub.Fields{
		"source": a.Source,
		"actor":  a.Actor,
	}
	if a.Reason != "" {
		fields["reason"] = a.Reason
	}
	Publisher.Emit(pubsub.NewEvent("door", fields))
	Count("klingel.door." + a.Source)
	if Audit != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		rec := audit.Record{Time: a.Time, Source: a.Source, Actor: a.Actor, Reason: a.Reason}
		if err := Audit.Record(ctx, rec); err != nil {
			log.Println("Audit error:", err)
		}
	}
}

// Count a metric, when metrics are enabled.
func Count(path string) {
	if Metrics == nil {
		return
	}
	if err := graphite.Count(Metrics, path); err != nil {
		log.Println("Graphite error:", err)
	}
}

// Launch runs the named services until one of them fails.
func Launch(ss []string) error {
	enabled = []Service{}
	for _, name := range ss {
		if service, ok := serviceMap[name]; ok {
			enabled = append(enabled, service)
		} else {
			return errors.Errorf("service %s does not exist", name)
		}
	}

	// listen for queries
	go QuerySubscriber()

	errs := make(chan error, len(enabled))
	for _, service := range enabled {
		log.Printf("Starting %s\n", service.ID())
		go func(service Service) {
			err := service.Run()
			if err == nil {
				err = fmt.Errorf("exited")
			}
			errs <- errors.Wrapf(err, "service %s", service.ID())
		}(service)
	}
	go Heartbeat()
	return <-errs
}

// Heartbeat tells systemd the services are up, then publishes a retained
// heartbeat event every minute.
func Heartbeat() {
	started := time.Now()
	var ids []string
	for _, service := range enabled {
		ids = append(ids, service.ID())
	}
	fields := pubsub.Fields{
		"device":   "heartbeat.klingel",
		"pid":      os.Getpid(),
		"services": ids,
		"started":  started.Format(time.RFC3339),
	}

	// notify systemd ready
	util.SdNotify(false, util.SdNotifyReady)

	for {
		uptime := int(time.Since(started).Seconds())
		fields["uptime"] = uptime
		ev := pubsub.NewEvent("heartbeat", fields)
		ev.Retained = true
		Publisher.Emit(ev)
		time.Sleep(time.Second * 60)
		// notify systemd watchdog
		util.SdNotify(false, util.SdNotifyWatchdog)
	}
}

func Register(service Service) {
	if _, exists := serviceMap[service.ID()]; exists {
		log.Fatalf("Duplicate service registered: %s", service.ID())
	}
	serviceMap[service.ID()] = service
}

// Registered service names.
func Registered() []string {
	var ret []string
	for name := range serviceMap {
		ret = append(ret, name)
	}
	return ret
}

// Shutdown waits for door pulses and notifications, then releases hardware.
func Shutdown() {
	util.SdNotify(false, util.SdNotifyStopping)
	if Door != nil {
		Door.Wait()
	}
	if Log != nil {
		Log.Wait()
	}
	if Audit != nil {
		Audit.Close()
	}
	if Board != nil {
		Board.Close()
	}
	if broker, ok := Publisher.(*mqtt.Broker); ok {
		broker.Disconnect()
	}
}
