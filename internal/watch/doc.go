// Package watch identifies audio CDs as they are inserted.
//
// A Watcher holds a file lock so only one instance drives the optical drive,
// listens for udev netlink events (SUBSYSTEM=block, ID_CDROM_MEDIA=1) and
// falls back to polling the drive status when netlink is unavailable. Each
// insertion reads the TOC, runs a freedb lookup, and optionally saves the
// result to the catalog.
package watch
