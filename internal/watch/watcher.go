package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"platter/internal/album"
	"platter/internal/catalog"
	"platter/internal/cdrom"
	"platter/internal/config"
	"platter/internal/discid"
	"platter/internal/fault"
	"platter/internal/freedb"
	"platter/internal/logging"
	"platter/internal/lookup"
)

// ErrAlreadyRunning is returned when another watcher holds the lock.
var ErrAlreadyRunning = errors.New("another platter watcher is already running")

// Identifier resolves an album layout to freedb metadata.
type Identifier interface {
	Identify(ctx context.Context, a album.Album, pick int) (lookup.Identification, error)
}

// Saver persists identified albums.
type Saver interface {
	Save(ctx context.Context, disc discid.ID, category freedb.Category, server string, a album.Album) (*catalog.Entry, error)
}

// Result describes one handled insertion.
type Result struct {
	Device         string                 `json:"device"`
	TOC            cdrom.TOC              `json:"toc"`
	Identification *lookup.Identification `json:"identification,omitempty"`
	Saved          *catalog.Entry         `json:"saved,omitempty"`
	Err            error                  `json:"-"`
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithTOCReader replaces the ioctl TOC reader.
func WithTOCReader(read func(device string) (cdrom.TOC, error)) Option {
	return func(w *Watcher) {
		if read != nil {
			w.readTOC = read
		}
	}
}

// WithStatusReader replaces the drive status probe used for polling.
func WithStatusReader(status func(device string) (cdrom.DriveStatus, error)) Option {
	return func(w *Watcher) {
		if status != nil {
			w.status = status
		}
	}
}

// WithSaver enables catalog saves.
func WithSaver(saver Saver) Option {
	return func(w *Watcher) {
		w.saver = saver
	}
}

// WithResultHandler receives every Result, including failures.
func WithResultHandler(fn func(Result)) Option {
	return func(w *Watcher) {
		w.onResult = fn
	}
}

// WithNetlink toggles udev event monitoring. When disabled, or when the
// netlink socket cannot be opened, the drive status is polled instead.
func WithNetlink(enabled bool) Option {
	return func(w *Watcher) {
		w.netlink = enabled
	}
}

// WithPollInterval sets the drive polling interval used without netlink.
func WithPollInterval(interval time.Duration) Option {
	return func(w *Watcher) {
		if interval > 0 {
			w.pollInterval = interval
		}
	}
}

// Watcher identifies discs inserted into one drive.
type Watcher struct {
	device       string
	logger       *slog.Logger
	identifier   Identifier
	saver        Saver
	readTOC      func(device string) (cdrom.TOC, error)
	status       func(device string) (cdrom.DriveStatus, error)
	onResult     func(Result)
	pollInterval time.Duration
	netlink      bool

	lockPath string
	lock     *flock.Flock

	handleMu sync.Mutex
}

// New builds a Watcher for the configured drive. Saves happen only when
// watch.auto_save is set and a Saver is supplied.
func New(cfg *config.Config, identifier Identifier, logger *slog.Logger, opts ...Option) (*Watcher, error) {
	if cfg == nil || identifier == nil {
		return nil, fault.Wrap(fault.ErrConfiguration, "watch", "init", "config and identifier required", nil)
	}
	w := &Watcher{
		device:       cfg.Drive.Device,
		logger:       logging.Component(logger, "watch"),
		identifier:   identifier,
		readTOC:      cdrom.ReadTOC,
		status:       cdrom.CheckDriveStatus,
		pollInterval: 2 * time.Second,
		netlink:      true,
		lockPath:     cfg.Watch.LockPath,
		lock:         flock.New(cfg.Watch.LockPath),
	}
	for _, opt := range opts {
		opt(w)
	}
	if !cfg.Watch.AutoSave {
		w.saver = nil
	}
	return w, nil
}

// Run holds the lock and handles insertions until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	if err := os.MkdirAll(filepath.Dir(w.lockPath), 0o755); err != nil {
		return fault.Wrap(fault.ErrDevice, "watch", "lock", w.lockPath, err)
	}
	ok, err := w.lock.TryLock()
	if err != nil {
		return fault.Wrap(fault.ErrDevice, "watch", "lock", w.lockPath, err)
	}
	if !ok {
		return fault.Wrap(fault.ErrDevice, "watch", "lock", w.lockPath, ErrAlreadyRunning)
	}
	defer func() {
		if err := w.lock.Unlock(); err != nil {
			w.logger.Warn("failed to release watch lock", logging.Error(err))
		}
	}()

	w.logger.Info("watching for discs",
		logging.String(logging.FieldEventType, "watch_started"),
		logging.String(logging.FieldDevice, w.device),
		logging.String("lock", w.lockPath))

	if !w.netlink {
		return w.poll(ctx)
	}
	events, err := listenMedia(ctx, w.logger)
	if err != nil {
		logging.Warn(w.logger, "netlink unavailable, polling drive status", "netlink_connect_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "run as a user allowed to open netlink sockets"),
			logging.String(logging.FieldImpact, "insertions detected by polling"))
		return w.poll(ctx)
	}
	for device := range events {
		if !sameDevice(device, w.device) {
			w.logger.Debug("ignoring media event for other drive", logging.String(logging.FieldDevice, device))
			continue
		}
		w.logger.Info("disc media detected",
			logging.String(logging.FieldEventType, "netlink_disc_detected"),
			logging.String(logging.FieldDevice, device))
		if status, err := cdrom.WaitForReadyWith(ctx, device, w.status, w.pollInterval); err != nil {
			w.logger.Info("drive never became ready",
				logging.String(logging.FieldDevice, device),
				logging.String("status", status.String()),
				logging.Error(err))
			continue
		}
		w.Handle(ctx, device)
	}
	return nil
}

// sameDevice reports whether a and b name the same node once symlinks such as
// /dev/cdrom are resolved.
func sameDevice(a, b string) bool {
	if a == b {
		return true
	}
	return resolveDevice(a) == resolveDevice(b)
}

func resolveDevice(path string) string {
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		return resolved
	}
	return filepath.Clean(path)
}

// poll triggers Handle on every transition into DriveStatusDiscOK.
func (w *Watcher) poll(ctx context.Context) error {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	last := cdrom.DriveStatusNoInfo
	for {
		status, err := w.status(w.device)
		if err != nil {
			w.logger.Debug("drive status failed", logging.Error(err))
		} else {
			if status == cdrom.DriveStatusDiscOK && last != cdrom.DriveStatusDiscOK {
				w.Handle(ctx, w.device)
			}
			last = status
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// Handle identifies the disc in device. Calls are serialized.
func (w *Watcher) Handle(ctx context.Context, device string) Result {
	w.handleMu.Lock()
	defer w.handleMu.Unlock()

	result := w.handle(ctx, device)
	if result.Err != nil {
		logging.Warn(w.logger, "disc identification failed", "watch_identify_failed",
			logging.Error(result.Err),
			logging.String(logging.FieldDevice, device),
			logging.String(logging.FieldErrorHint, "run platter lookup manually to inspect the matches"),
			logging.String(logging.FieldImpact, "disc left unidentified"))
	}
	if w.onResult != nil {
		w.onResult(result)
	}
	return result
}

func (w *Watcher) handle(ctx context.Context, device string) Result {
	result := Result{Device: device}

	toc, err := w.readTOC(device)
	if err != nil {
		result.Err = err
		return result
	}
	result.TOC = toc

	probed, err := toc.Album()
	if err != nil {
		result.Err = err
		return result
	}

	ident, err := w.identifier.Identify(ctx, probed, 0)
	if err != nil {
		result.Err = err
		return result
	}
	result.Identification = &ident

	if w.saver == nil {
		return result
	}
	entry, err := w.saver.Save(ctx, ident.DiscID, ident.Match.Category, ident.Server, ident.Album)
	if err != nil {
		result.Err = fmt.Errorf("save %s: %w", ident.DiscID.Hex(), err)
		return result
	}
	result.Saved = entry
	w.logger.Info("album saved to catalog",
		logging.String(logging.FieldEventType, "watch_saved"),
		logging.String(logging.FieldDiscID, ident.DiscID.Hex()),
		logging.String("entry_id", entry.ID))
	return result
}
