package cmd

import (
	"errors"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gofrs/flock"
	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	godaemon "github.com/sevlyar/go-daemon"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/matjam/loopwall/internal/cli/cmd/utils"
	"github.com/matjam/loopwall/internal/ipc"
	"github.com/matjam/loopwall/internal/lockmon"
	"github.com/matjam/loopwall/internal/overlay"
	"github.com/matjam/loopwall/internal/wallpaper"
)

func NewStartCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "start [video] [frame-output]",
		Short: "Start the loopwall daemon",
		Long: `Starts the wallpaper daemon. The video path comes from the first
argument or the config file; the optional second argument is where a
static fallback frame is written.`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return StartManager(args)
		},
	}

	c.Flags().Bool("audio", false, "Play the video's audio track")
	c.Flags().Float64("volume", 0.0, "Audio volume, 0.0 to 1.0")
	c.Flags().String("watermark-text", "", "Watermark text")
	c.Flags().String("watermark-position", "", "Watermark position (topLeft|topRight|bottomLeft|bottomRight|center)")
	c.Flags().Bool("no-watermark", false, "Disable the watermark")

	viper.BindPFlag("audio", c.Flags().Lookup("audio"))
	viper.BindPFlag("volume", c.Flags().Lookup("volume"))
	viper.BindPFlag("no-watermark", c.Flags().Lookup("no-watermark"))
	viper.BindPFlag("watermark_text", c.Flags().Lookup("watermark-text"))
	viper.BindPFlag("watermark_position", c.Flags().Lookup("watermark-position"))

	return c
}

// StartManager brings the daemon up in the foreground or, with
// --background, as a detached process. A missing video is the one error
// returned to cobra, so the user gets usage; everything later is fatal.
func StartManager(args []string) error {
	videoPath := viper.GetString("video")
	if len(args) > 0 {
		videoPath = args[0]
	}
	if videoPath == "" {
		return errors.New("no video specified; pass a path or set `video` in the config")
	}

	if viper.GetBool("debug") {
		log.SetLevel(log.DebugLevel)
	}

	if viper.GetBool("background") {
		// Reborn is called twice: once in the parent, which gets the
		// child handle back, and once in the re-executed child, which
		// gets nil and carries on as the daemon.
		ctx := &godaemon.Context{}

		child, err := ctx.Reborn()
		if err != nil {
			log.Fatalf("Failed to daemonize: %v", err)
		}
		if child != nil {
			log.Infof("loopwall started in the background, PID %d", child.Pid)
			return nil
		}
		defer ctx.Release()

		setupRotatingLogger()
	}

	log.Infof("StartManager() started in PID: %d", os.Getpid())

	if _, err := ipc.SendStatus(); err == nil {
		log.Infof("loopwall is already running, exiting")
		os.Exit(0)
	}

	lock := acquireLock()
	defer lock.Unlock()

	framePath := viper.GetString("frame_output")
	if len(args) > 1 {
		framePath = args[1]
	}

	manager, err := wallpaper.NewManager(wallpaper.Options{
		VideoPath:       utils.CanonicalPath(videoPath),
		FrameOutputPath: utils.CanonicalPath(framePath),
		Audio:           viper.GetBool("audio"),
		Volume:          viper.GetFloat64("volume"),
		Watermark:       watermarkFromConfig(),
		ShowWatermark:   showWatermark(),
	})
	if err != nil {
		log.Fatalf("Failed to start: %v", err)
	}

	monitor, err := lockmon.New(manager)
	if err != nil {
		// Without the monitor the wallpaper still works, it just won't
		// pause on lock.
		log.Warnf("lock monitor unavailable: %v", err)
	} else {
		manager.AttachMonitor(monitor)
	}

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		// Stay subscribed so repeated signals keep re-asserting the stop;
		// Stop is idempotent and never blocks.
		for sig := range sigs {
			log.Infof("received %v, shutting down", sig)
			manager.Stop()
		}
	}()

	go func() {
		log.Infof("Starting socket server")
		ipc.Start(manager)
	}()

	manager.Run()

	os.Remove(ipc.SocketPath())
	log.Infof("loopwall exited")
	return nil
}

// watermarkFromConfig assembles the watermark from viper, with flag and
// config values layered over the defaults.
func watermarkFromConfig() overlay.Config {
	cfg := overlay.DefaultConfig()

	if text := viper.GetString("watermark_text"); text != "" {
		cfg.Text = text
	}
	cfg.Position = overlay.ParsePosition(viper.GetString("watermark_position"))
	if viper.IsSet("watermark_opacity") {
		cfg.Opacity = viper.GetFloat64("watermark_opacity")
	}
	if size := viper.GetFloat64("watermark_font_size"); size > 0 {
		cfg.FontSize = size
	}
	if pad := viper.GetFloat64("watermark_padding"); pad >= 0 {
		cfg.Padding = pad
	}

	return cfg.Normalize()
}

func showWatermark() bool {
	if viper.GetBool("no-watermark") {
		return false
	}
	return viper.GetBool("show_watermark")
}

// acquireLock enforces a single daemon instance per user.
func acquireLock() *flock.Flock {
	lockDir := os.Getenv("XDG_RUNTIME_DIR")
	if lockDir == "" {
		lockDir = os.TempDir()
	}

	lock := flock.New(filepath.Join(lockDir, "loopwall.lock"))
	ok, err := lock.TryLock()
	if err != nil {
		log.Fatalf("Failed to acquire instance lock: %v", err)
	}
	if !ok {
		log.Fatal("Another loopwall instance holds the lock, exiting")
	}
	return lock
}

func setupRotatingLogger() {
	home := os.Getenv("HOME")
	logDir := filepath.Join(home, ".local", "share", "loopwall")
	logPath := filepath.Join(logDir, "loopwall.log")

	writer, err := rotatelogs.New(
		logPath+".%Y%m%d%H%M",
		rotatelogs.WithLinkName(logPath),
		rotatelogs.WithMaxAge(7*24*time.Hour),
		rotatelogs.WithRotationSize(10*1024*1024),
		rotatelogs.WithRotationTime(24*time.Hour),
	)
	if err != nil {
		log.Fatalf("failed to configure log rotation: %v", err)
	}

	log.SetOutput(writer)
	log.SetLevel(log.InfoLevel)
}
