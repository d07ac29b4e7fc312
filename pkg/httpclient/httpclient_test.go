package httpclient

import (
	"net/http"
	"testing"
	"time"
)

func TestNew_AppliesDefaults(t *testing.T) {
	c := New(Config{})
	if c.Timeout != 30*time.Second {
		t.Errorf("expected 30s timeout, got %v", c.Timeout)
	}

	tr, ok := c.Transport.(*http.Transport)
	if !ok {
		t.Fatal("expected *http.Transport")
	}
	if tr.MaxIdleConns != 10 {
		t.Errorf("expected 10 idle conns, got %d", tr.MaxIdleConns)
	}
	if tr.TLSClientConfig.InsecureSkipVerify {
		t.Error("certificate verification must be on by default")
	}
}

func TestWithInsecure(t *testing.T) {
	c := New(WithInsecure(true))
	tr := c.Transport.(*http.Transport)
	if !tr.TLSClientConfig.InsecureSkipVerify {
		t.Error("expected TLS verification to be skipped")
	}

	c = New(WithInsecure(false))
	tr = c.Transport.(*http.Transport)
	if tr.TLSClientConfig.InsecureSkipVerify {
		t.Error("expected TLS verification to be enforced")
	}
}

func TestNew_CustomTimeout(t *testing.T) {
	c := New(Config{Timeout: 5 * time.Second})
	if c.Timeout != 5*time.Second {
		t.Errorf("expected 5s timeout, got %v", c.Timeout)
	}
}
