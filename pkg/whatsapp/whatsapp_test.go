package whatsapp

import (
	"testing"

	waProto "go.mau.fi/whatsmeow/binary/proto"
	"go.mau.fi/whatsmeow/types"
	"google.golang.org/protobuf/proto"
)

func TestMessageText(t *testing.T) {
	tests := []struct {
		name string
		msg  *waProto.Message
		want string
	}{
		{name: "nil", msg: nil, want: ""},
		{name: "conversation", msg: &waProto.Message{Conversation: proto.String(" mehter ")}, want: "mehter"},
		{
			name: "extended",
			msg: &waProto.Message{ExtendedTextMessage: &waProto.ExtendedTextMessage{
				Text: proto.String("Adana Seyhan"),
			}},
			want: "Adana Seyhan",
		},
		{name: "empty", msg: &waProto.Message{}, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := messageText(tt.msg); got != tt.want {
				t.Fatalf("messageText = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestShouldHandle(t *testing.T) {
	direct := types.MessageInfo{}
	direct.Chat = types.NewJID("905551112233", types.DefaultUserServer)
	if !shouldHandle(direct) {
		t.Fatal("direct message skipped")
	}

	fromMe := direct
	fromMe.IsFromMe = true
	if shouldHandle(fromMe) {
		t.Fatal("own message handled")
	}

	group := direct
	group.IsGroup = true
	if shouldHandle(group) {
		t.Fatal("group message handled")
	}

	status := direct
	status.Chat = types.NewJID("status", types.BroadcastServer)
	if shouldHandle(status) {
		t.Fatal("status broadcast handled")
	}
}

func TestTextMessage(t *testing.T) {
	if got := textMessage("merhaba").GetConversation(); got != "merhaba" {
		t.Fatalf("conversation = %q", got)
	}
}

func TestAudioFileName(t *testing.T) {
	tests := map[string]string{
		"audio/ogg; codecs=opus": "voice.ogg",
		"audio/mpeg":             "voice.mp3",
		"audio/mp4":              "voice.m4a",
		"":                       "voice.ogg",
	}
	for mimetype, want := range tests {
		if got := audioFileName(mimetype); got != want {
			t.Fatalf("audioFileName(%q) = %q, want %q", mimetype, got, want)
		}
	}
}
