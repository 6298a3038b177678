package internal

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/ocfox/ventora/internal/api"
	"github.com/ocfox/ventora/internal/configuration"
	"github.com/ocfox/ventora/internal/controller"
	"github.com/ocfox/ventora/internal/device"
	"github.com/ocfox/ventora/internal/fans"
	"github.com/ocfox/ventora/internal/persistence"
	"github.com/ocfox/ventora/internal/statistics"
	"github.com/ocfox/ventora/internal/sysfs"
	"github.com/ocfox/ventora/internal/ui"
	"github.com/oklog/run"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func RunDaemon() {
	if !(fans.RootPrivilege{}).IsPrivileged() {
		ui.Fatal("Fan control requires root permissions to be able to modify fan speeds, please run ventora as root")
	}

	config := configuration.CurrentConfig

	pers := persistence.NewPersistence(config.DbPath)
	if err := pers.Init(); err != nil {
		ui.Fatal("Unable to initialize persistence at %s: %v", config.DbPath, err)
	}

	controllers, err := InitializeObjects(sysfs.NewPaths(config.SysfsRoot), pers, config, fans.RootPrivilege{})
	if err != nil {
		ui.Fatal("Unable to detect GPUs: %v", err)
	}
	if len(controllers) == 0 {
		ui.Fatal("No valid device configurations, exiting.")
	}

	statistics.Register(statistics.NewDeviceCollector(controller.SnapshotAll))

	ctx, cancel := context.WithCancel(context.Background())

	var g run.Group
	{
		if config.Statistics.Enabled {
			// === Prometheus Exporter
			port := config.Statistics.Port
			if port <= 0 || port >= 65535 {
				port = 9000
			}
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			server := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}

			g.Add(func() error {
				ui.Info("Serving metrics on :%d/metrics", port)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					ui.Error("Cannot start prometheus metrics endpoint (%s)", err.Error())
					<-ctx.Done()
				}
				return nil
			}, func(err error) {
				ui.Info("Stopping statistics server...")
				timeoutCtx, timeoutCancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer timeoutCancel()
				if err := server.Shutdown(timeoutCtx); err != nil {
					ui.Warning("Error stopping statistics server: %v", err)
				}
			})
		}
	}
	{
		if config.Api.Enabled {
			// === REST api
			rest := api.CreateRestService(api.DefaultMetricsRegistry())
			addr := fmt.Sprintf("%s:%d", config.Api.Host, config.Api.Port)

			g.Add(func() error {
				ui.Info("Starting REST api on %s", addr)
				if err := rest.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
					ui.Error("Cannot start REST api (%s)", err.Error())
					<-ctx.Done()
				}
				return nil
			}, func(err error) {
				shutdownRestService(rest)
			})
		}
	}
	{
		// === device controllers
		for _, c := range controllers {
			deviceController := c
			g.Add(func() error {
				err := deviceController.Run(ctx)
				ui.Info("Controller for device %s stopped.", deviceController.GetId())
				return err
			}, func(err error) {
				cancel()
			})
		}
	}
	{
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

		g.Add(func() error {
			select {
			case <-sig:
				ui.Info("Received SIGTERM signal, exiting...")
			case <-ctx.Done():
			}
			return nil
		}, func(err error) {
			signal.Stop(sig)
			cancel()
		})
	}

	if err := g.Run(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	} else {
		ui.Info("Done.")
		os.Exit(0)
	}
}

func shutdownRestService(rest *echo.Echo) {
	ui.Info("Stopping REST api...")
	timeoutCtx, timeoutCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer timeoutCancel()
	if err := rest.Shutdown(timeoutCtx); err != nil {
		ui.Warning("Error stopping REST api: %v", err)
	}
}

// InitializeObjects builds and registers one controller per configured device that is present
// and usable. Problems with a single device are logged and that device is skipped.
func InitializeObjects(
	paths sysfs.Paths,
	pers persistence.Persistence,
	config configuration.Configuration,
	privilege fans.PrivilegeChecker,
) ([]*controller.DeviceController, error) {
	cards, err := device.FindCards(paths)
	if err != nil {
		return nil, err
	}

	settings := controller.SettingsFromConfig(config)
	access := fans.SysfsAccess{}

	var result []*controller.DeviceController
	for _, deviceConfig := range config.Devices {
		busId := deviceConfig.BusId

		var dev *device.Device
		for _, card := range cards {
			if card.BusId == busId {
				dev = card
				break
			}
		}
		if dev == nil {
			ui.Warning("Configured device %s was not found, skipping", busId)
			continue
		}

		if err := configuration.ValidateDevice(deviceConfig); err != nil {
			ui.Error("Skipping device %s: %v", busId, err)
			continue
		}
		if len(dev.HwmonPath) <= 0 {
			ui.Error("Skipping device %s: no hwmon interface", busId)
			continue
		}

		channel, err := fans.ProbeChannel(dev.HwmonPath, access)
		if err != nil {
			ui.Error("Skipping device %s: %v", busId, err)
			continue
		}

		if name, err := dev.ProductName(); err == nil {
			ui.Info("Controlling %s (%s) via pwm%d", name, busId, channel.Index)
		} else {
			ui.Info("Controlling %s via pwm%d", busId, channel.Index)
		}

		actuator := fans.NewActuator(busId, *channel, access, privilege)
		deviceController := controller.NewDeviceController(dev, deviceConfig, actuator, pers, settings)
		controller.RegisterDeviceController(deviceController)
		result = append(result, deviceController)
	}

	return result, nil
}
