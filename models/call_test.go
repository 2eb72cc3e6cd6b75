package models

import "testing"

// Oda adı yön bağımsızdır — iki taraf negotiation yapmadan aynı odayı bulur.
func TestCallRoomNameIsDirectionIndependent(t *testing.T) {
	pairs := [][2]string{
		{"alice", "bob"},
		{"bob", "alice"},
		{"u-001", "u-999"},
		{"9f3a", "0b1c"},
	}
	for _, p := range pairs {
		if CallRoomName(p[0], p[1]) != CallRoomName(p[1], p[0]) {
			t.Errorf("room name differs for (%s, %s)", p[0], p[1])
		}
	}

	if CallRoomName("alice", "bob") != "call-alice-bob" {
		t.Errorf("unexpected room name %q", CallRoomName("alice", "bob"))
	}
}

func TestCallOtherParty(t *testing.T) {
	call := &Call{CallerID: "a", CalleeID: "b"}

	if got := call.OtherParty("a"); got != "b" {
		t.Errorf("OtherParty(a) = %q, want b", got)
	}
	if got := call.OtherParty("b"); got != "a" {
		t.Errorf("OtherParty(b) = %q, want a", got)
	}
	if got := call.OtherParty("c"); got != "" {
		t.Errorf("OtherParty(c) = %q, want empty", got)
	}

	if !call.Involves("a") || !call.Involves("b") || call.Involves("c") {
		t.Error("Involves should match only participants")
	}
}

func TestCallSignalValidate(t *testing.T) {
	valid := CallSignal{To: "a", From: "b", CallID: "c1", Type: CallTypeAudio}
	if err := valid.Validate(); err != nil {
		t.Errorf("valid signal rejected: %v", err)
	}

	cases := []CallSignal{
		{From: "b", CallID: "c1", Type: CallTypeAudio},       // to yok
		{To: "a", CallID: "c1", Type: CallTypeVideo},         // from yok
		{To: "a", From: "b", Type: CallTypeAudio},            // callId yok
		{To: "a", From: "b", CallID: "c1", Type: "hologram"}, // bilinmeyen tür
	}
	for i, s := range cases {
		if err := s.Validate(); err == nil {
			t.Errorf("case %d: expected validation error", i)
		}
	}
}
