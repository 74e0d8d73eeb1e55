// Command bin-sensor monitors a waste bin and reports its state to the
// collector: ultrasonic fill level, moisture/gas wet detection fused with
// the collector's classifier, LED and buzzer alerts.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/sweeney/bin-sensor/internal/config"
	"github.com/sweeney/bin-sensor/internal/controller"
	"github.com/sweeney/bin-sensor/internal/hw"
	"github.com/sweeney/bin-sensor/internal/logging"
	"github.com/sweeney/bin-sensor/internal/mqtt"
	"github.com/sweeney/bin-sensor/internal/remote"
	"github.com/sweeney/bin-sensor/internal/status"
	"github.com/sweeney/bin-sensor/internal/web"
)

type options struct {
	server    string
	timeout   time.Duration
	broker    string
	heartbeat time.Duration
	httpAddr  string
	wsBroker  string

	trigPin   int
	echoPin   int
	redPin    int
	yellowPin int
	buzzerPin int
	i2cBus    string

	printState bool
}

func main() {
	config.Load()

	var opts options
	flag.StringVar(&opts.server, "server", config.Getenv(config.EnvServerURL, "http://192.168.1.200:5000"), "Collector base URL")
	flag.DurationVar(&opts.timeout, "timeout", 5*time.Second, "Collector request timeout")
	flag.StringVar(&opts.broker, "broker", config.Getenv(config.EnvMQTTBroker, ""), "MQTT broker address (empty to disable)")
	flag.DurationVar(&opts.heartbeat, "heartbeat", config.GetenvDuration(config.EnvHeartbeat, 15*time.Minute), "Heartbeat interval (0 to disable)")
	flag.StringVar(&opts.httpAddr, "http", config.Getenv(config.EnvHTTPAddr, ":8080"), "HTTP status address (empty to disable)")
	flag.StringVar(&opts.wsBroker, "ws-broker", "=broker", `MQTT websocket URL for live UI ("=broker" derives from --broker, "off" disables)`)
	flag.IntVar(&opts.trigPin, "pin-trig", hw.PinTrig, "BCM pin number for the ultrasonic trigger")
	flag.IntVar(&opts.echoPin, "pin-echo", hw.PinEcho, "BCM pin number for the ultrasonic echo")
	flag.IntVar(&opts.redPin, "pin-red", hw.PinRed, "BCM pin number for the wet-alert LED")
	flag.IntVar(&opts.yellowPin, "pin-yellow", hw.PinYellow, "BCM pin number for the bin-full LED")
	flag.IntVar(&opts.buzzerPin, "pin-buzzer", hw.PinBuzzer, "BCM pin number for the buzzer (hardware PWM)")
	flag.StringVar(&opts.i2cBus, "i2c", "", "I2C bus name for the ADC (empty picks the first)")
	flag.BoolVar(&opts.printState, "print-state", false, "Read the sensors once, print and exit")
	debug := flag.Bool("debug", config.GetenvBool(config.EnvDebug, false), "Enable per-iteration debug logging")
	flag.Parse()

	log, err := logging.New(*debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logging: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	opts.wsBroker = resolveWSBroker(opts.wsBroker, opts.broker, log)

	if err := run(opts, log); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func run(opts options, log *zap.SugaredLogger) error {
	sensors, err := hw.NewRealSensors(opts.trigPin, opts.echoPin, opts.i2cBus, hw.ADCAddr)
	if err != nil {
		return fmt.Errorf("init sensors: %w", err)
	}
	defer sensors.Close()

	if opts.printState {
		reading, err := sensors.Read()
		if err != nil {
			return fmt.Errorf("read sensors: %w", err)
		}
		fmt.Printf("gas: %d, moisture: %d, distance: %.2fcm\n",
			reading.Gas, reading.Moisture, reading.Distance)
		return nil
	}

	outputs, err := hw.NewRealOutputs(opts.redPin, opts.yellowPin, opts.buzzerPin)
	if err != nil {
		return fmt.Errorf("init outputs: %w", err)
	}
	defer outputs.Close()

	var publisher mqtt.Publisher
	var mqttStatus mqtt.ConnectionStatus
	if opts.broker != "" {
		pub, err := mqtt.NewRealPublisher(opts.broker, log)
		if err != nil {
			return fmt.Errorf("init mqtt: %w", err)
		}
		defer pub.Close()
		publisher = pub
		mqttStatus = pub
	}

	tracker := status.NewTracker(time.Now(), status.Config{
		HeartbeatMs: opts.heartbeat.Milliseconds(),
		Broker:      opts.broker,
		ServerURL:   opts.server,
		HTTPAddr:    opts.httpAddr,
		WSBroker:    opts.wsBroker,
	})
	if net := readNetworkInfo(); net != nil {
		tracker.SetNetwork(net)
	}

	if publisher != nil {
		snap := tracker.Snapshot()
		startup := mqtt.SystemEvent{
			Timestamp:  snap.Now,
			Event:      "STARTUP",
			Retained:   true,
			RawPayload: status.FormatStatusEvent(snap, "STARTUP", ""),
		}
		if err := publisher.PublishSystem(startup); err != nil {
			log.Warnw("startup publish failed", "err", err)
		} else {
			log.Infow("published startup event")
		}
	}

	if opts.httpAddr != "" {
		srv := web.New(opts.httpAddr, tracker)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Errorw("http server", "err", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Infow("http status server listening", "addr", opts.httpAddr)
	}

	ctrl := controller.New(controller.Config{
		Sensors:    sensors,
		Outputs:    outputs,
		Remote:     remote.New(opts.server, opts.timeout, log),
		Publisher:  publisher,
		MQTTStatus: mqttStatus,
		Tracker:    tracker,
		Heartbeat:  opts.heartbeat,
		Log:        log,
	}, time.Now())

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	log.Infow("started",
		"server", opts.server, "broker", opts.broker, "heartbeat", opts.heartbeat)

	return ctrl.Run(time.Now, time.Sleep, sig)
}

// pi-helper env var names (written to /run/pi-helper.env).
const (
	envNetworkType       = "NETWORK_TYPE"
	envNetworkIP         = "NETWORK_IP"
	envNetworkStatus     = "NETWORK_STATUS"
	envNetworkGateway    = "NETWORK_GATEWAY"
	envNetworkWifiStatus = "NETWORK_WIFI_STATUS"
	envNetworkWifiSSID   = "NETWORK_WIFI_SSID"
)

func readNetworkInfo() *status.NetworkInfo {
	s := os.Getenv(envNetworkStatus)
	if s == "" {
		return nil
	}
	return &status.NetworkInfo{
		Type:       os.Getenv(envNetworkType),
		IP:         os.Getenv(envNetworkIP),
		Status:     s,
		Gateway:    os.Getenv(envNetworkGateway),
		WifiStatus: os.Getenv(envNetworkWifiStatus),
		SSID:       os.Getenv(envNetworkWifiSSID),
	}
}

// resolveWSBroker converts the --ws-broker flag value into a concrete URL.
// "=broker" derives ws://host:9001 from the TCP broker address; empty
// disables.
func resolveWSBroker(ws, broker string, log *zap.SugaredLogger) string {
	if ws == "off" {
		return ""
	}
	if ws != "=broker" {
		return ws
	}
	if broker == "" {
		return ""
	}
	u, err := url.Parse(broker)
	if err != nil {
		log.Warnw("ws-broker: cannot parse broker address", "broker", broker, "err", err)
		return ""
	}
	u.Scheme = "ws"
	u.Host = u.Hostname() + ":9001"
	return u.String()
}
