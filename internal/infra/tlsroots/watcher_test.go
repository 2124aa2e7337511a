package tlsroots

import (
	"crypto/tls"
	"crypto/x509"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newTestWatcher(t *testing.T) (*Watcher, string, string) {
	t.Helper()
	dir := t.TempDir()
	certFile := filepath.Join(dir, "tls.crt")
	keyFile := filepath.Join(dir, "tls.key")
	writeSelfSigned(t, certFile, keyFile, "first")

	w, err := NewWatcher(certFile, keyFile, WithDebounce(20*time.Millisecond))
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	t.Cleanup(func() { _ = w.Stop() })
	return w, certFile, keyFile
}

func commonName(t *testing.T, w *Watcher) string {
	t.Helper()
	cert, err := w.GetCertificate(nil)
	if err != nil || cert == nil {
		t.Fatalf("GetCertificate() = %v, %v", cert, err)
	}
	leaf, err := x509.ParseCertificate(cert.Certificate[0])
	if err != nil {
		t.Fatal(err)
	}
	return leaf.Subject.CommonName
}

func TestNewWatcher(t *testing.T) {
	w, _, _ := newTestWatcher(t)
	if got := commonName(t, w); got != "first" {
		t.Errorf("CommonName = %q, want first", got)
	}
}

func TestNewWatcher_InvalidFiles(t *testing.T) {
	dir := t.TempDir()
	certFile := filepath.Join(dir, "tls.crt")
	keyFile := filepath.Join(dir, "tls.key")

	if _, err := NewWatcher(certFile, keyFile); err == nil {
		t.Error("NewWatcher() expected error for missing files")
	}

	if err := os.WriteFile(certFile, []byte("bad"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(keyFile, []byte("bad"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := NewWatcher(certFile, keyFile); err == nil {
		t.Error("NewWatcher() expected error for invalid PEM")
	}
}

func TestWatcher_ReloadOnChange(t *testing.T) {
	w, certFile, keyFile := newTestWatcher(t)

	writeSelfSigned(t, certFile, keyFile, "second")

	deadline := time.Now().Add(3 * time.Second)
	for commonName(t, w) != "second" {
		if time.Now().After(deadline) {
			t.Fatal("certificate was not reloaded")
		}
		time.Sleep(20 * time.Millisecond)
	}
}

func TestWatcher_KeepsCertOnBadReload(t *testing.T) {
	w, certFile, _ := newTestWatcher(t)

	if err := os.WriteFile(certFile, []byte("broken"), 0o600); err != nil {
		t.Fatal(err)
	}
	time.Sleep(200 * time.Millisecond)

	if got := commonName(t, w); got != "first" {
		t.Errorf("CommonName = %q, the previous pair should stay", got)
	}
}

func TestWatcher_StopTwice(t *testing.T) {
	w, _, _ := newTestWatcher(t)
	if err := w.Stop(); err != nil {
		t.Errorf("Stop() error = %v", err)
	}
	if err := w.Stop(); err != nil {
		t.Errorf("second Stop() error = %v", err)
	}
}

func TestWatcher_TLSHandshake(t *testing.T) {
	w, certFile, _ := newTestWatcher(t)

	ln, err := tls.Listen("tcp", "127.0.0.1:0", w.ServerTLSConfig())
	if err != nil {
		t.Fatal(err)
	}
	defer ln.Close()

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			_, _ = io.WriteString(conn, "hello")
			_ = conn.Close()
		}
	}()

	pool, err := LoadPool(certFile)
	if err != nil {
		t.Fatal(err)
	}
	conn, err := tls.Dial("tcp", ln.Addr().String(), pool.ClientTLSConfig())
	if err != nil {
		t.Fatalf("tls.Dial() error = %v", err)
	}
	defer conn.Close()

	got, _ := io.ReadAll(conn)
	if string(got) != "hello" {
		t.Errorf("read %q, want hello", got)
	}

	if _, err := tls.Dial("tcp", ln.Addr().String(), NewEmptyPool().ClientTLSConfig()); err == nil {
		t.Error("an untrusting client should fail the handshake")
	}
}
