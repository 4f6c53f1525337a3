package transport

import "testing"

// recordingProvider wraps NewMockSocket so tests can retrieve the concrete
// *MockSocket a Reader/Writer was constructed with, to Deliver frames into
// it or link it to a peer.
type recordingProvider struct {
	sock *MockSocket
}

func (p *recordingProvider) NewSocket(SocketRole) (Socket, error) {
	p.sock = NewMockSocket(nil)
	return p.sock, nil
}

func newTestReader(t *testing.T, url string) (*Reader, *MockSocket) {
	t.Helper()
	cfg, err := NewReaderConfig().URL(url).Build()
	if err != nil {
		t.Fatalf("reader config: %v", err)
	}
	p := &recordingProvider{}
	r, err := NewReader(cfg, p)
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	return r, p.sock
}

func TestReader_SubscriberReceivesMessage(t *testing.T) {
	r, sock := newTestReader(t, "sub+connect:ipc:///tmp/sub_test.ipc")
	meta, err := encodeMeta(Meta{SeqID: 7})
	if err != nil {
		t.Fatal(err)
	}
	sock.Deliver([][]byte{[]byte("cam0"), meta, []byte("payload")})

	res, err := r.Receive()
	if err != nil {
		t.Fatalf("Receive: %v", err)
	}
	if res.Kind != ResultMessage {
		t.Fatalf("Kind = %v, want ResultMessage", res.Kind)
	}
	if string(res.Topic) != "cam0" {
		t.Errorf("Topic = %q", res.Topic)
	}
	if res.Meta.SeqID != 7 {
		t.Errorf("SeqID = %d, want 7", res.Meta.SeqID)
	}
	if len(res.Extra) != 1 || string(res.Extra[0]) != "payload" {
		t.Errorf("Extra = %v", res.Extra)
	}
}

func TestReader_SubscriberDetectsEndOfStream(t *testing.T) {
	r, sock := newTestReader(t, "sub+connect:ipc:///tmp/sub_test.ipc")
	meta, _ := encodeMeta(eosMeta(1))
	sock.Deliver([][]byte{[]byte("cam0"), meta})

	res, err := r.Receive()
	if err != nil {
		t.Fatalf("Receive: %v", err)
	}
	if res.Kind != ResultEndOfStream {
		t.Fatalf("Kind = %v, want ResultEndOfStream", res.Kind)
	}
}

func TestReader_TimeoutWhenNothingDelivered(t *testing.T) {
	cfg, err := NewReaderConfig().URL("sub+connect:ipc:///tmp/sub_test.ipc").WithReceiveTimeout(10).Build()
	if err != nil {
		t.Fatal(err)
	}
	p := &recordingProvider{}
	r, err := NewReader(cfg, p)
	if err != nil {
		t.Fatal(err)
	}
	res, err := r.Receive()
	if err != nil {
		t.Fatalf("Receive: %v", err)
	}
	if res.Kind != ResultTimeout {
		t.Fatalf("Kind = %v, want ResultTimeout", res.Kind)
	}
}

func TestReader_TooShortFrame(t *testing.T) {
	r, sock := newTestReader(t, "sub+connect:ipc:///tmp/sub_test.ipc")
	sock.Deliver([][]byte{[]byte("cam0")})

	res, err := r.Receive()
	if err != nil {
		t.Fatalf("Receive: %v", err)
	}
	if res.Kind != ResultTooShort {
		t.Fatalf("Kind = %v, want ResultTooShort", res.Kind)
	}
	if res.FrameCount != 1 {
		t.Errorf("FrameCount = %d, want 1", res.FrameCount)
	}
}

func TestReader_TopicPrefixMismatch(t *testing.T) {
	cfg, err := NewReaderConfig().
		URL("sub+connect:ipc:///tmp/sub_test.ipc").
		WithTopicPrefixSpec(ExactTopic("cam0")).
		Build()
	if err != nil {
		t.Fatal(err)
	}
	p := &recordingProvider{}
	r, err := NewReader(cfg, p)
	if err != nil {
		t.Fatal(err)
	}
	meta, _ := encodeMeta(Meta{SeqID: 1})
	p.sock.Deliver([][]byte{[]byte("cam1"), meta})

	res, err := r.Receive()
	if err != nil {
		t.Fatalf("Receive: %v", err)
	}
	if res.Kind != ResultPrefixMismatch {
		t.Fatalf("Kind = %v, want ResultPrefixMismatch", res.Kind)
	}
}

func TestReader_RouterParsesRoutingIDAndOptionalDelimiter(t *testing.T) {
	r, sock := newTestReader(t, "router+bind:ipc:///tmp/router_test.ipc")
	meta, _ := encodeMeta(Meta{SeqID: 3})

	sock.Deliver([][]byte{[]byte("peer-1"), {}, []byte("cam0"), meta})
	res, err := r.Receive()
	if err != nil {
		t.Fatalf("Receive: %v", err)
	}
	if res.Kind != ResultMessage {
		t.Fatalf("Kind = %v, want ResultMessage", res.Kind)
	}
	if string(res.RoutingID) != "peer-1" {
		t.Errorf("RoutingID = %q, want peer-1", res.RoutingID)
	}
	if string(res.Topic) != "cam0" {
		t.Errorf("Topic = %q, want cam0", res.Topic)
	}
}

func TestReader_RouterWithoutDelimiter(t *testing.T) {
	r, sock := newTestReader(t, "router+bind:ipc:///tmp/router_test2.ipc")
	meta, _ := encodeMeta(Meta{SeqID: 4})

	sock.Deliver([][]byte{[]byte("peer-2"), []byte("cam1"), meta})
	res, err := r.Receive()
	if err != nil {
		t.Fatalf("Receive: %v", err)
	}
	if res.Kind != ResultMessage {
		t.Fatalf("Kind = %v, want ResultMessage", res.Kind)
	}
	if string(res.RoutingID) != "peer-2" {
		t.Errorf("RoutingID = %q, want peer-2", res.RoutingID)
	}
}

func TestReader_RouterRejectsStaleRoutingID(t *testing.T) {
	r, sock := newTestReader(t, "router+bind:ipc:///tmp/router_test3.ipc")
	meta, _ := encodeMeta(Meta{SeqID: 1})

	sock.Deliver([][]byte{[]byte("peer-a"), []byte("cam0"), meta})
	if res, err := r.Receive(); err != nil || res.Kind != ResultMessage {
		t.Fatalf("first peer should be accepted: %v %v", res.Kind, err)
	}
	// in self-reply mode the router's ack lands in its own inbox; drain it.
	sock.RecvMultipart(DontWait)
	sock.Deliver([][]byte{[]byte("peer-b"), []byte("cam0"), meta})
	if res, err := r.Receive(); err != nil || res.Kind != ResultMessage {
		t.Fatalf("second peer should take over: %v %v", res.Kind, err)
	}
	sock.RecvMultipart(DontWait)
	sock.Deliver([][]byte{[]byte("peer-a"), []byte("cam0"), meta})
	res, err := r.Receive()
	if err != nil {
		t.Fatalf("Receive: %v", err)
	}
	if res.Kind != ResultRoutingIDMismatch {
		t.Fatalf("Kind = %v, want ResultRoutingIDMismatch", res.Kind)
	}
}

func TestReader_RepSendsAckBack(t *testing.T) {
	r, sock := newTestReader(t, "rep+bind:ipc:///tmp/rep_test.ipc")
	meta, _ := encodeMeta(Meta{SeqID: 1})
	sock.Deliver([][]byte{[]byte("cam0"), meta})

	if _, err := r.Receive(); err != nil {
		t.Fatalf("Receive: %v", err)
	}
	ack, err := sock.RecvMultipart(NoFlag)
	if err != nil {
		t.Fatalf("expected an ack frame, got error: %v", err)
	}
	if len(ack) != 1 || string(ack[0]) != "OK" {
		t.Errorf("ack = %v, want [OK]", ack)
	}
}
