package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/wipflags/internal/daemon"
	"github.com/theirongolddev/wipflags/internal/logging"
)

type serverRuntimeState struct {
	PID       int       `json:"pid"`
	Addr      string    `json:"addr"`
	StartedAt time.Time `json:"started_at"`
	Workbook  string    `json:"workbook"`
	Project   string    `json:"project"`
}

var (
	flagServeAddr         string
	flagServeInterval     time.Duration
	flagServeDetach       bool
	flagServePIDFile      string
	flagServeLogFile      string
	flagServeEventsBuffer int
	flagServeChild        bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Watch a workbook and serve red flags over HTTP/SSE",
	Long: "Re-analyze the project whenever the workbook changes and at the start of\n" +
		"every month, and publish the report and red-flag changes over HTTP.",
	RunE: runServe,
}

var serveStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show watch server process and API status",
	RunE:  runServeStatus,
}

var serveStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the running watch server",
	RunE:  runServeStop,
}

func init() {
	dir := runtimeDir()

	serveCmd.PersistentFlags().StringVar(&flagServeAddr, "addr", "127.0.0.1:8787", "HTTP listen address")
	serveCmd.PersistentFlags().DurationVar(&flagServeInterval, "interval", 15*time.Second, "Workbook polling interval")
	serveCmd.PersistentFlags().StringVar(&flagServePIDFile, "pid-file", filepath.Join(dir, "wipflags.pid"), "PID file path")
	serveCmd.PersistentFlags().StringVar(&flagServeLogFile, "log-file", filepath.Join(dir, "wipflags.log"), "Log file path for detached mode")
	serveCmd.PersistentFlags().IntVar(&flagServeEventsBuffer, "events-buffer", 200, "Max in-memory events retained")

	serveCmd.Flags().BoolVar(&flagServeDetach, "detach", false, "Run the server as a background process")
	serveCmd.Flags().BoolVar(&flagServeChild, "child", false, "Internal: mark detached child process")
	_ = serveCmd.Flags().MarkHidden("child")

	serveCmd.AddCommand(serveStatusCmd)
	serveCmd.AddCommand(serveStopCmd)
	rootCmd.AddCommand(serveCmd)
}

// runtimeDir holds the pid, state and log files.
func runtimeDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "wipflags")
	}
	return filepath.Join(os.TempDir(), "wipflags")
}

// applyServerConfig fills flags the user did not set from the [server]
// config section.
func applyServerConfig(cmd *cobra.Command) {
	if !cmd.Flags().Changed("addr") && cfg.Server.Addr != "" {
		flagServeAddr = cfg.Server.Addr
	}
	if !cmd.Flags().Changed("interval") && cfg.Server.PollIntervalSec > 0 {
		flagServeInterval = time.Duration(cfg.Server.PollIntervalSec) * time.Second
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	if flagServeDetach && flagServeChild {
		return errors.New("invalid server launch mode")
	}
	applyServerConfig(cmd)

	if flagWorkbook == "" {
		return errNoWorkbook
	}
	if flagProject == "" {
		return errors.New("no project selected: pass --project (see `wipflags projects`)")
	}

	if flagServeDetach {
		return startServerDetached()
	}
	return runServerForeground(cmd)
}

func startServerDetached() error {
	if err := ensureServerNotRunning(flagServePIDFile); err != nil {
		return err
	}

	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("resolve executable: %w", err)
	}

	args := filterDetachArg(os.Args[1:])
	args = append(args, "--child")

	if err := os.MkdirAll(filepath.Dir(flagServePIDFile), 0o750); err != nil {
		return fmt.Errorf("create server directory: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(flagServeLogFile), 0o750); err != nil {
		return fmt.Errorf("create server log directory: %w", err)
	}

	//nolint:gosec // log path is configured by the local user
	logf, err := os.OpenFile(flagServeLogFile, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("open server log file: %w", err)
	}
	defer func() { _ = logf.Close() }()

	child := exec.Command(exe, args...) //nolint:gosec // exe/args come from current process invocation
	child.Stdout = logf
	child.Stderr = logf
	child.Stdin = nil
	child.Env = os.Environ()

	if err := child.Start(); err != nil {
		return fmt.Errorf("start detached server: %w", err)
	}

	fmt.Printf("  Started watch server (pid %d)\n", child.Process.Pid)
	fmt.Printf("  PID file: %s\n", flagServePIDFile)
	fmt.Printf("  API: http://%s/v1/status\n", flagServeAddr)
	fmt.Printf("  Log: %s\n", flagServeLogFile)
	return nil
}

func runServerForeground(cmd *cobra.Command) error {
	if err := ensureServerNotRunning(flagServePIDFile); err != nil {
		return err
	}

	req, err := request(cmd)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(flagServePIDFile), 0o750); err != nil {
		return fmt.Errorf("create server directory: %w", err)
	}

	pid := os.Getpid()
	if err := writePID(flagServePIDFile, pid); err != nil {
		return err
	}
	defer func() { _ = os.Remove(flagServePIDFile) }()

	state := serverRuntimeState{
		PID:       pid,
		Addr:      flagServeAddr,
		StartedAt: time.Now(),
		Workbook:  flagWorkbook,
		Project:   req.Project,
	}
	_ = writeState(statePath(flagServePIDFile), state)
	defer func() { _ = os.Remove(statePath(flagServePIDFile)) }()

	// The server logs JSON lines so detached output stays machine readable.
	level := flagLogLevel
	if level == "" {
		level = cfg.General.LogLevel
	}
	if level == "" {
		level = "info"
	}
	svcLog := logging.New(logging.Config{Level: level})

	svc := daemon.New(daemon.Config{
		Workbook:     flagWorkbook,
		Layout:       layout(),
		Request:      req,
		Interval:     flagServeInterval,
		Addr:         flagServeAddr,
		EventsBuffer: flagServeEventsBuffer,
		Log:          svcLog,
	})

	if !flagQuiet {
		fmt.Fprintf(os.Stderr, "  wipflags listening on http://%s\n", flagServeAddr)
		fmt.Fprintf(os.Stderr, "  Watching %s (project %s) every %s\n", flagWorkbook, req.Project, flagServeInterval)
		fmt.Fprintf(os.Stderr, "  Stop with: wipflags serve stop --pid-file %s\n", flagServePIDFile)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := svc.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func runServeStatus(cmd *cobra.Command, _ []string) error {
	applyServerConfig(cmd)

	pid, err := readPID(flagServePIDFile)
	if err != nil {
		fmt.Printf("  Server: not running (pid file not found)\n")
		return nil
	}

	if !processAlive(pid) {
		fmt.Printf("  Server: stale pid file (pid %d not alive)\n", pid)
		return nil
	}

	addr := flagServeAddr
	if st, err := readState(statePath(flagServePIDFile)); err == nil && st.Addr != "" {
		addr = st.Addr
	}

	fmt.Printf("  Server PID: %d\n", pid)
	fmt.Printf("  Address: http://%s\n", addr)

	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get("http://" + addr + "/v1/status") //nolint:noctx // short status check
	if err != nil {
		fmt.Printf("  API status: unreachable (%v)\n", err)
		return nil
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		fmt.Printf("  API status: HTTP %d\n", resp.StatusCode)
		return nil
	}

	var st daemon.Status
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		fmt.Printf("  API status: malformed response (%v)\n", err)
		return nil
	}

	fmt.Printf("  Workbook: %s\n", st.Workbook)
	fmt.Printf("  Project: %s\n", st.Project)
	if st.LastPollAt.IsZero() {
		fmt.Printf("  Last poll: pending\n")
	} else {
		fmt.Printf("  Last poll: %s\n", st.LastPollAt.Local().Format(time.RFC3339))
	}
	fmt.Printf("  Analyses: %d of %d polls\n", st.AnalysisCount, st.PollCount)
	if !st.LastAnalysisAt.IsZero() {
		fmt.Printf("  As of: %s\n", st.Summary.AsOf)
		fmt.Printf("  Red flags: %d raised\n", st.Summary.RaisedFlags)
		for _, f := range st.Summary.Flags {
			if f.Raised {
				fmt.Printf("    %-28s %s\n", f.Category, f.Month)
			}
		}
	}
	if st.LastError != "" {
		fmt.Printf("  Last error: %s\n", st.LastError)
	}
	return nil
}

func runServeStop(_ *cobra.Command, _ []string) error {
	pid, err := readPID(flagServePIDFile)
	if err != nil {
		return errors.New("watch server is not running")
	}

	proc, err := os.FindProcess(pid)
	if err != nil {
		return fmt.Errorf("find server process: %w", err)
	}
	if err := proc.Signal(syscall.SIGTERM); err != nil {
		return fmt.Errorf("signal server process: %w", err)
	}

	deadline := time.Now().Add(8 * time.Second)
	for time.Now().Before(deadline) {
		if !processAlive(pid) {
			_ = os.Remove(flagServePIDFile)
			_ = os.Remove(statePath(flagServePIDFile))
			fmt.Printf("  Stopped watch server (pid %d)\n", pid)
			return nil
		}
		time.Sleep(150 * time.Millisecond)
	}

	return fmt.Errorf("watch server (pid %d) did not exit in time", pid)
}

func filterDetachArg(args []string) []string {
	out := make([]string, 0, len(args))
	for _, a := range args {
		if a == "--detach" || strings.HasPrefix(a, "--detach=") {
			continue
		}
		out = append(out, a)
	}
	return out
}

func ensureServerNotRunning(pidFile string) error {
	pid, err := readPID(pidFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if processAlive(pid) {
		return fmt.Errorf("watch server already running (pid %d)", pid)
	}
	_ = os.Remove(pidFile)
	_ = os.Remove(statePath(pidFile))
	return nil
}

func writePID(path string, pid int) error {
	return os.WriteFile(path, []byte(strconv.Itoa(pid)+"\n"), 0o600)
}

func readPID(path string) (int, error) {
	//nolint:gosec // pid path is configured by the local user
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return 0, fmt.Errorf("invalid pid in %s", path)
	}
	return pid, nil
}

func processAlive(pid int) bool {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	err = proc.Signal(syscall.Signal(0))
	return err == nil || errors.Is(err, syscall.EPERM)
}

func statePath(pidFile string) string {
	return pidFile + ".json"
}

func writeState(path string, st serverRuntimeState) error {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o600)
}

func readState(path string) (serverRuntimeState, error) {
	var st serverRuntimeState
	//nolint:gosec // state path is configured by the local user
	data, err := os.ReadFile(path)
	if err != nil {
		return st, err
	}
	if err := json.Unmarshal(data, &st); err != nil {
		return st, err
	}
	return st, nil
}
