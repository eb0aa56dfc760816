package watch

import (
	"context"
	"log/slog"
	"strings"

	"github.com/pilebones/go-udev/netlink"

	"platter/internal/logging"
)

// mediaRules accepts change and add events for optical block devices that
// report media.
func mediaRules() netlink.Matcher {
	action := "change|add"
	rules := &netlink.RuleDefinitions{}
	rules.AddRule(netlink.RuleDefinition{
		Action: &action,
		Env: map[string]string{
			"SUBSYSTEM":      "block",
			"ID_CDROM":       "1",
			"ID_CDROM_MEDIA": "1",
		},
	})
	return rules
}

// listenMedia subscribes to kernel uevents and sends the device path of every
// optical drive that reports new media. The channel closes when ctx ends.
func listenMedia(ctx context.Context, logger *slog.Logger) (<-chan string, error) {
	conn := new(netlink.UEventConn)
	if err := conn.Connect(netlink.UdevEvent); err != nil {
		return nil, err
	}
	queue := make(chan netlink.UEvent)
	errs := make(chan error)
	stop := conn.Monitor(queue, errs, mediaRules())

	out := make(chan string)
	go func() {
		defer close(out)
		defer conn.Close()
		defer close(stop)
		for {
			select {
			case <-ctx.Done():
				return
			case event := <-queue:
				device := mediaDevice(event)
				if device == "" {
					logger.Debug("uevent without device name",
						logging.String("action", string(event.Action)),
						logging.String("kobj", event.KObj))
					continue
				}
				select {
				case out <- device:
				case <-ctx.Done():
					return
				}
			case err := <-errs:
				logging.Warn(logger, "uevent monitor error", "netlink_monitor_error",
					logging.Error(err),
					logging.String(logging.FieldErrorHint, "check kernel netlink subsystem"),
					logging.String(logging.FieldImpact, "disc insertions may be missed"))
			}
		}
	}()
	return out, nil
}

// mediaDevice returns the /dev path named by event, from DEVNAME or else the
// last DEVPATH element.
func mediaDevice(event netlink.UEvent) string {
	if name := event.Env["DEVNAME"]; name != "" {
		if strings.HasPrefix(name, "/") {
			return name
		}
		return "/dev/" + name
	}
	devpath := event.Env["DEVPATH"]
	if devpath == "" {
		return ""
	}
	return "/dev/" + devpath[strings.LastIndexByte(devpath, '/')+1:]
}
