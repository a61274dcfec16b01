//go:build windows

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sys/windows"
	"golang.org/x/sys/windows/svc"
	"golang.org/x/sys/windows/svc/debug"
	"golang.org/x/sys/windows/svc/eventlog"
	"golang.org/x/sys/windows/svc/mgr"
)

const (
	SERVICE_NAME        = "chordkeys"
	SERVICE_DISPLAYNAME = "Chordkeys hotkey daemon"
	SERVICE_DESCRIPTION = "Runs hotkey and chord bindings in the interactive user session."
)

// addServiceCommand adds the service management commands.
func addServiceCommand(root *cobra.Command, v *viper.Viper) {
	service := &cobra.Command{
		Use:   "service",
		Short: "Manage the Windows service",
	}
	service.AddCommand(
		&cobra.Command{
			Use:   "install",
			Short: "Install the service with the current --file and --log-file",
			Args:  cobra.NoArgs,
			RunE: func(_ *cobra.Command, _ []string) error {
				return installService(settingsFrom(v))
			},
		},
		&cobra.Command{
			Use:   "remove",
			Short: "Remove the service",
			Args:  cobra.NoArgs,
			RunE: func(_ *cobra.Command, _ []string) error {
				return removeService()
			},
		},
		&cobra.Command{
			Use:    "run",
			Short:  "Entry point used by the service manager",
			Args:   cobra.NoArgs,
			Hidden: true,
			RunE: func(_ *cobra.Command, _ []string) error {
				return runService(settingsFrom(v))
			},
		},
	)
	root.AddCommand(service)
}

// agentService keeps an agent running in the user session while the
// service is started.
type agentService struct {
	settings Settings
}

// Execute is called by the Windows service manager.
func (m *agentService) Execute(args []string, r <-chan svc.ChangeRequest, s chan<- svc.Status) (bool, uint32) {
	const cmdsAccepted = svc.AcceptStop | svc.AcceptShutdown

	s <- svc.Status{State: svc.StartPending}
	logger.Info().Str("file", m.settings.File).Str("log", m.settings.LogFile).Msg("Service starting")

	pipePath, stopPipe, err := startIPCServer()
	if err != nil {
		logger.Warn().Err(err).Msg("ipc: pipe disabled")
		pipePath, stopPipe = "", func() {}
	}
	defer stopPipe()

	pi, err := launchAgentInActiveSession(m.settings, pipePath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to launch agent")
		return false, 1
	}
	defer windows.CloseHandle(pi.Thread)  //nolint:errcheck
	defer windows.CloseHandle(pi.Process) //nolint:errcheck
	logger.Info().Uint32("pid", pi.ProcessId).Msg("Agent started")

	s <- svc.Status{State: svc.Running, Accepts: cmdsAccepted}

loop:
	for c := range r {
		switch c.Cmd {
		case svc.Interrogate:
			s <- c.CurrentStatus
		case svc.Stop, svc.Shutdown:
			logger.Info().Msg("Service received stop signal")
			break loop
		}
	}

	s <- svc.Status{State: svc.StopPending}
	if err := windows.TerminateProcess(pi.Process, 0); err != nil {
		logger.Warn().Err(err).Msg("Failed to stop agent")
	} else {
		windows.WaitForSingleObject(pi.Process, 5000) //nolint:errcheck
	}
	s <- svc.Status{State: svc.Stopped}
	logger.Info().Msg("Service stopped")
	return false, 0
}

// installService installs the current executable as a Windows service
// started with `service run` and the given binding and log files.
func installService(s Settings) error {
	exePath, err := os.Executable()
	if err != nil {
		return fmt.Errorf("cannot get executable path: %w", err)
	}
	exePath, err = filepath.Abs(exePath)
	if err != nil {
		return fmt.Errorf("cannot get absolute path: %w", err)
	}
	file, err := filepath.Abs(s.File)
	if err != nil {
		return fmt.Errorf("cannot get absolute config path: %w", err)
	}

	m, err := mgr.Connect()
	if err != nil {
		return fmt.Errorf("cannot connect to service manager: %w", err)
	}
	defer m.Disconnect() //nolint:errcheck

	if svcHandle, err := m.OpenService(SERVICE_NAME); err == nil {
		svcHandle.Close() //nolint:errcheck
		return fmt.Errorf("service %s already exists", SERVICE_NAME)
	}

	args := []string{"service", "run", "--file", file}
	if s.LogFile != "" {
		args = append(args, "--log-file", s.LogFile)
	}
	svcHandle, err := m.CreateService(SERVICE_NAME, exePath, mgr.Config{
		DisplayName: SERVICE_DISPLAYNAME,
		Description: SERVICE_DESCRIPTION,
		StartType:   mgr.StartAutomatic,
	}, args...)
	if err != nil {
		return fmt.Errorf("cannot create service: %w", err)
	}
	defer svcHandle.Close() //nolint:errcheck

	if err := eventlog.InstallAsEventCreate(SERVICE_NAME, eventlog.Error|eventlog.Warning|eventlog.Info); err != nil {
		logger.Warn().Err(err).Msg("Event log source not installed")
	}
	fmt.Printf("Service %s installed (config %s)\n", SERVICE_NAME, file)
	return nil
}

// removeService removes the Windows service.
func removeService() error {
	m, err := mgr.Connect()
	if err != nil {
		return fmt.Errorf("cannot connect to service manager: %w", err)
	}
	defer m.Disconnect() //nolint:errcheck

	svcHandle, err := m.OpenService(SERVICE_NAME)
	if err != nil {
		return fmt.Errorf("service %s is not installed: %w", SERVICE_NAME, err)
	}
	defer svcHandle.Close() //nolint:errcheck

	if err := svcHandle.Delete(); err != nil {
		return fmt.Errorf("failed to delete service: %w", err)
	}
	_ = eventlog.Remove(SERVICE_NAME)
	fmt.Printf("Service %s removed\n", SERVICE_NAME)
	return nil
}

// runService hands control to the service manager. Outside the service
// manager it runs in debug mode on the console.
func runService(s Settings) error {
	closer, err := setupLogging(s, nil)
	if err != nil {
		return fmt.Errorf("setup logging: %w", err)
	}
	if closer != nil {
		defer closer.Close() //nolint:errcheck
	}

	isService, err := svc.IsWindowsService()
	if err != nil {
		return fmt.Errorf("detect service mode: %w", err)
	}

	var elog debug.Log
	run := svc.Run
	if isService {
		if elog, err = eventlog.Open(SERVICE_NAME); err != nil {
			return fmt.Errorf("open event log: %w", err)
		}
	} else {
		elog = debug.New(SERVICE_NAME)
		run = debug.Run
	}
	defer elog.Close() //nolint:errcheck

	elog.Info(1, "Starting service")
	if err := run(SERVICE_NAME, &agentService{settings: s}); err != nil {
		elog.Error(1, fmt.Sprintf("service run failed: %v", err))
		return fmt.Errorf("service run failed: %w", err)
	}
	elog.Info(1, "Service stopped")
	return nil
}
