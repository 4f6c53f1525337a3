package transport

import "testing"

func newTestWriter(t *testing.T, url string) (*Writer, *MockSocket) {
	t.Helper()
	cfg, err := NewWriterConfig().URL(url).Build()
	if err != nil {
		t.Fatalf("writer config: %v", err)
	}
	p := &recordingProvider{}
	w, err := NewWriter(cfg, p)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	return w, p.sock
}

func TestWriter_PublisherSendsWithoutAwaitingAck(t *testing.T) {
	w, sock := newTestWriter(t, "pub+bind:tcp://*:5555")
	res, err := w.SendMessage("cam0", Meta{SeqID: 1}, nil)
	if err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	if res.Kind != ResultSuccess {
		t.Fatalf("Kind = %v, want ResultSuccess", res.Kind)
	}
	// the frame should have been delivered; nothing consumed it, but the
	// mock socket still buffered it in self-reply mode.
	if _, err := sock.RecvMultipart(DontWait); err != nil {
		t.Fatalf("expected the published frame to be recoverable: %v", err)
	}
}

func TestWriter_RequestAwaitsAck(t *testing.T) {
	w, sock := newTestWriter(t, "req+connect:tcp://localhost:5555")
	sock.responder = func([][]byte) [][]byte { return [][]byte{[]byte("OK")} }

	res, err := w.SendMessage("cam0", Meta{SeqID: 1}, nil)
	if err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	if res.Kind != ResultAck {
		t.Fatalf("Kind = %v, want ResultAck", res.Kind)
	}
}

func TestWriter_RequestAckTimeoutExhaustsRetries(t *testing.T) {
	cfg, err := NewWriterConfig().
		URL("req+connect:tcp://localhost:5555").
		WithAckReceiveTimeout(10).
		WithAckReceiveRetries(1).
		Build()
	if err != nil {
		t.Fatal(err)
	}
	p := &recordingProvider{}
	w, err := NewWriter(cfg, p)
	if err != nil {
		t.Fatal(err)
	}
	// self-reply responder never produces a frame, so every receive blocks.
	p.sock.responder = func([][]byte) [][]byte { return nil }

	_, err = w.SendMessage("cam0", Meta{SeqID: 1}, nil)
	if err == nil {
		t.Fatal("expected an ack timeout error")
	}
	var aerr *AckTimeoutError
	if e, ok := err.(*AckTimeoutError); ok {
		aerr = e
	}
	if aerr == nil {
		t.Fatalf("expected *AckTimeoutError, got %T: %v", err, err)
	}
	if aerr.RetriesSpent != 1 {
		t.Errorf("RetriesSpent = %d, want 1", aerr.RetriesSpent)
	}
}

func TestWriter_EOSConfirmedEvenOnPublisher(t *testing.T) {
	cfg, err := NewWriterConfig().URL("pub+bind:tcp://*:5555").Build()
	if err != nil {
		t.Fatal(err)
	}
	p := &recordingProvider{}
	w, err := NewWriter(cfg, p)
	if err != nil {
		t.Fatal(err)
	}
	p.sock.responder = func([][]byte) [][]byte { return [][]byte{[]byte("OK")} }

	res, err := w.SendEOS("cam0", 99)
	if err != nil {
		t.Fatalf("SendEOS: %v", err)
	}
	if res.Kind != ResultAck {
		t.Fatalf("Kind = %v, want ResultAck (EOS must be confirmed even on a publisher)", res.Kind)
	}
}

func TestWriter_DealerPrependsSourceAndDelimiter(t *testing.T) {
	cfg, err := NewWriterConfig().URL("dealer+connect:ipc:///tmp/dealer_test.ipc:cam0").Build()
	if err != nil {
		t.Fatal(err)
	}
	p := &recordingProvider{}
	w, err := NewWriter(cfg, p)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := w.SendMessage("cam0", Meta{SeqID: 1}, nil); err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	frames, err := p.sock.RecvMultipart(DontWait)
	if err != nil {
		t.Fatalf("expected the sent frame to be recoverable: %v", err)
	}
	if len(frames) < 4 {
		t.Fatalf("frames = %v, want at least 4 (source, delim, topic, meta)", frames)
	}
	if string(frames[0]) != "cam0" {
		t.Errorf("source frame = %q, want cam0", frames[0])
	}
	if len(frames[1]) != 0 {
		t.Errorf("delimiter frame = %q, want empty", frames[1])
	}
}
