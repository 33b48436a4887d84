// Package daemonconf reconciles a desired configuration into the daemon's
// vsftpd.conf, preserving everything it does not manage.
package daemonconf

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMalformedInput marks a desired configuration that is rejected before any
// file mutation happens.
var ErrMalformedInput = errors.New("malformed desired configuration")

// Desired is the manager-facing daemon configuration. JSON field names match
// the persisted desired-config document.
type Desired struct {
	FTPPort      int    `json:"ftp_port"`
	PassivePorts string `json:"passive_ports"` // "min-max"
	MaxClients   int    `json:"max_clients"`
	MaxPerIP     int    `json:"max_per_ip"`
	SSLEnabled   bool   `json:"ssl_enabled"`
	SSLCertFile  string `json:"ssl_cert_file"`
	SSLKeyFile   string `json:"ssl_key_file"`
}

// Default returns the desired configuration used before the operator ever
// saves one.
func Default() Desired {
	return Desired{
		FTPPort:      21,
		PassivePorts: "40000-40100",
		MaxClients:   50,
		MaxPerIP:     10,
		SSLEnabled:   true,
		SSLCertFile:  "/etc/ssl/cert.pem",
		SSLKeyFile:   "/etc/ssl/key.pem",
	}
}

// Validate checks the desired configuration as a whole. Nothing is applied
// when any field is missing or malformed.
func (d Desired) Validate() error {
	if d.FTPPort <= 0 || d.FTPPort > 65535 {
		return fmt.Errorf("%w: ftp_port %d out of range", ErrMalformedInput, d.FTPPort)
	}
	if _, _, err := d.passiveRange(); err != nil {
		return err
	}
	if d.MaxClients <= 0 {
		return fmt.Errorf("%w: max_clients must be positive", ErrMalformedInput)
	}
	if d.MaxPerIP <= 0 {
		return fmt.Errorf("%w: max_per_ip must be positive", ErrMalformedInput)
	}
	if d.SSLEnabled && (d.SSLCertFile == "" || d.SSLKeyFile == "") {
		return fmt.Errorf("%w: ssl enabled without cert or key path", ErrMalformedInput)
	}
	return nil
}

func (d Desired) passiveRange() (min, max int, err error) {
	lo, hi, found := strings.Cut(d.PassivePorts, "-")
	if !found {
		return 0, 0, fmt.Errorf("%w: passive_ports %q is not of the form min-max", ErrMalformedInput, d.PassivePorts)
	}
	min, err = strconv.Atoi(strings.TrimSpace(lo))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: passive_ports min %q is not numeric", ErrMalformedInput, lo)
	}
	max, err = strconv.Atoi(strings.TrimSpace(hi))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: passive_ports max %q is not numeric", ErrMalformedInput, hi)
	}
	if min <= 0 || max > 65535 || min > max {
		return 0, 0, fmt.Errorf("%w: passive_ports range %d-%d is invalid", ErrMalformedInput, min, max)
	}
	return min, max, nil
}

// daemonKeys lists the recognized vsftpd.conf keys, in the order missing ones
// are appended. Keys already present keep their original position.
var daemonKeys = []string{
	"listen_port",
	"pasv_min_port",
	"pasv_max_port",
	"max_clients",
	"max_per_ip",
	"ssl_enable",
	"rsa_cert_file",
	"rsa_private_key_file",
}

// daemonValues serializes the desired configuration into the daemon's
// key=value vocabulary. Call Validate first.
func (d Desired) daemonValues() map[string]string {
	min, max, _ := d.passiveRange()
	ssl := "NO"
	if d.SSLEnabled {
		ssl = "YES"
	}
	return map[string]string{
		"listen_port":          strconv.Itoa(d.FTPPort),
		"pasv_min_port":        strconv.Itoa(min),
		"pasv_max_port":        strconv.Itoa(max),
		"max_clients":          strconv.Itoa(d.MaxClients),
		"max_per_ip":           strconv.Itoa(d.MaxPerIP),
		"ssl_enable":           ssl,
		"rsa_cert_file":        d.SSLCertFile,
		"rsa_private_key_file": d.SSLKeyFile,
	}
}

// Merge rewrites the existing configuration lines so that every recognized
// key carries its canonical value exactly once: the first pre-existing line
// for a key is replaced in place, later duplicates are dropped, and keys with
// no line yet are appended in daemonKeys order. Comments, blanks and
// unrecognized keys pass through verbatim and in order. Merging the same
// desired values twice yields byte-identical output.
func Merge(existing []string, values map[string]string) []string {
	out := make([]string, 0, len(existing)+len(daemonKeys))
	done := make(map[string]bool, len(daemonKeys))

	for _, line := range existing {
		key, recognized := recognizedKey(line)
		if !recognized {
			out = append(out, line)
			continue
		}
		if done[key] {
			continue
		}
		out = append(out, key+"="+values[key])
		done[key] = true
	}

	for _, key := range daemonKeys {
		if !done[key] {
			out = append(out, key+"="+values[key])
		}
	}
	return out
}

func recognizedKey(line string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	for _, key := range daemonKeys {
		if strings.HasPrefix(trimmed, key+"=") {
			return key, true
		}
	}
	return "", false
}
