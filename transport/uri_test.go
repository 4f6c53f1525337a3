package transport

import "testing"

func TestParseURI_FullForm(t *testing.T) {
	u, err := ParseURI("req+connect:tcp://localhost:5555")
	if err != nil {
		t.Fatalf("ParseURI: %v", err)
	}
	if u.Role != RoleReq {
		t.Errorf("Role = %v, want RoleReq", u.Role)
	}
	if u.Bind == nil || *u.Bind {
		t.Errorf("Bind = %v, want false", u.Bind)
	}
	if u.Endpoint != "tcp://localhost" {
		t.Errorf("Endpoint = %q, want tcp://localhost", u.Endpoint)
	}
	if u.Source == nil || *u.Source != "5555" {
		t.Errorf("Source = %v, want 5555", u.Source)
	}
}

func TestParseURI_BareEndpoint(t *testing.T) {
	u, err := ParseURI("ipc:///tmp/sock.ipc")
	if err != nil {
		t.Fatalf("ParseURI: %v", err)
	}
	if u.Role != RoleNone {
		t.Errorf("Role = %v, want RoleNone", u.Role)
	}
	if u.Bind != nil {
		t.Errorf("Bind = %v, want nil", u.Bind)
	}
	if u.Source != nil {
		t.Errorf("Source = %v, want nil", u.Source)
	}
}

func TestParseURI_SourceOnReaderRejected(t *testing.T) {
	_, err := ParseURI("sub+connect:tcp://localhost:5555")
	if err == nil {
		t.Fatal("expected error for source on a reader socket")
	}
	var uerr *InvalidUriError
	if !asInvalidUriError(err, &uerr) {
		t.Fatalf("expected *InvalidUriError, got %T: %v", err, err)
	}
}

func TestParseURI_UnknownRole(t *testing.T) {
	_, err := ParseURI("xyz+bind:tcp://localhost")
	if err == nil {
		t.Fatal("expected error for unknown role")
	}
}

func TestParseURI_BadGrammar(t *testing.T) {
	_, err := ParseURI("not-a-uri-at-all")
	if err == nil {
		t.Fatal("expected error for malformed uri")
	}
}

func TestParseURI_RoundTrip(t *testing.T) {
	cases := []string{
		"pub+bind:tcp://*:5555",
		"router+bind:ipc:///tmp/a.ipc",
		"ipc:///tmp/b.ipc",
		"req+connect:tcp://localhost:5555",
	}
	for _, c := range cases {
		u, err := ParseURI(c)
		if err != nil {
			t.Fatalf("ParseURI(%q): %v", c, err)
		}
		u2, err := ParseURI(u.String())
		if err != nil {
			t.Fatalf("ParseURI(%q) round trip: %v", u.String(), err)
		}
		if u2.String() != u.String() {
			t.Errorf("round trip mismatch: %q -> %q -> %q", c, u.String(), u2.String())
		}
	}
}

func asInvalidUriError(err error, target **InvalidUriError) bool {
	e, ok := err.(*InvalidUriError)
	if !ok {
		return false
	}
	*target = e
	return true
}
