package cryptox

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

var (
	pepperMu   sync.RWMutex
	pepper     string
	pepperFile string
)

// SetPepperPath sets where the pepper is read from (or written to on first
// boot). The pepper is loaded lazily on the first hash.
func SetPepperPath(file string) {
	pepperMu.Lock()
	defer pepperMu.Unlock()
	pepperFile = file
	pepper = ""
}

// SetPepper installs a pepper directly, mainly for tests.
func SetPepper(p string) {
	pepperMu.Lock()
	defer pepperMu.Unlock()
	pepper = p
}

// Pepper returns the active pepper, loading it from the configured file the
// first time. Changing the pepper invalidates every stored hash.
func Pepper() (string, error) {
	pepperMu.RLock()
	p, file := pepper, pepperFile
	pepperMu.RUnlock()
	if p != "" {
		return p, nil
	}

	if file == "" {
		return "", errors.New("cryptox: pepper path not configured")
	}

	pepperMu.Lock()
	defer pepperMu.Unlock()

	// Another goroutine may have loaded it while we waited
	if pepper != "" {
		return pepper, nil
	}

	loaded, err := loadOrGeneratePepper(file)
	if err != nil {
		return "", fmt.Errorf("cryptox: pepper: %w", err)
	}
	pepper = loaded
	return pepper, nil
}

// loadOrGeneratePepper loads the pepper from a file or generates one if not found.
func loadOrGeneratePepper(file string) (string, error) {
	file = filepath.Clean(file)
	if err := os.MkdirAll(filepath.Dir(file), 0750); err != nil {
		return "", err
	}

	b, err := os.ReadFile(file) // #nosec G304 - path comes from operator config
	if err == nil {
		p := strings.TrimSpace(string(b))
		if p == "" {
			return "", fmt.Errorf("pepper file %s is empty", file)
		}
		return p, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return "", err
	}

	// First boot, generate a new pepper and save it to the file
	buf := make([]byte, keyLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	p := base64.RawURLEncoding.EncodeToString(buf)

	if err := os.WriteFile(file, []byte(p), 0600); err != nil {
		return "", err
	}
	return p, nil
}
