package whatsapp

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"IsraBot/pkg/utils"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/mdp/qrterminal/v3"
	"github.com/sirupsen/logrus"
	"go.mau.fi/whatsmeow"
	waProto "go.mau.fi/whatsmeow/binary/proto"
	"go.mau.fi/whatsmeow/store/sqlstore"
	"go.mau.fi/whatsmeow/types"
	"go.mau.fi/whatsmeow/types/events"
	waLog "go.mau.fi/whatsmeow/util/log"
	"google.golang.org/protobuf/proto"
)

const (
	defaultDialect = "sqlite3"
	defaultDSN     = "file:storage/whatsapp.db?_foreign_keys=on"
	connectTimeout = 60 * time.Second
	replyTimeout   = 30 * time.Second
)

// MessageHandler answers an inbound text. An empty reply sends nothing.
type MessageHandler func(ctx context.Context, senderID, text string) (string, error)

// Transcriber turns a voice note into text.
type Transcriber interface {
	Transcribe(ctx context.Context, name string, data []byte) (string, error)
}

type IWhatsappSender interface {
	Start(ctx context.Context, handler MessageHandler) error
	SendMessage(ctx context.Context, phoneNumber, message string) error
	Disconnect() error
	IsConnected() bool
}

type whatsappSender struct {
	client      *whatsmeow.Client
	log         *logrus.Logger
	handler     MessageHandler
	transcriber Transcriber
}

// New opens the device store named by WA_STORE_DIALECT and WA_STORE_DSN
// (sqlite3 or postgres). The client is not connected until Start. Voice notes
// are answered only when transcriber is not nil.
func New(ctx context.Context, log *logrus.Logger, transcriber Transcriber) (IWhatsappSender, error) {
	dialect := os.Getenv("WA_STORE_DIALECT")
	if dialect == "" {
		dialect = defaultDialect
	}
	dsn := os.Getenv("WA_STORE_DSN")
	if dsn == "" {
		dsn = defaultDSN
	}

	dbLog := waLog.Stdout("Database", "WARN", true)
	container, err := sqlstore.New(ctx, dialect, dsn, dbLog)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to device store: %w", err)
	}

	deviceStore, err := container.GetFirstDevice(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get device store: %w", err)
	}

	return &whatsappSender{
		client:      whatsmeow.NewClient(deviceStore, waLog.Stdout("Client", "WARN", true)),
		log:         log,
		transcriber: transcriber,
	}, nil
}

func (w *whatsappSender) Start(ctx context.Context, handler MessageHandler) error {
	w.handler = handler

	connected := make(chan struct{}, 1)
	w.client.AddEventHandler(func(evt interface{}) {
		switch v := evt.(type) {
		case *events.Connected:
			select {
			case connected <- struct{}{}:
			default:
			}
		case *events.Message:
			go w.onMessage(v)
		}
	})

	if w.client.Store.ID == nil {
		qrChan, _ := w.client.GetQRChannel(ctx)
		if err := w.client.Connect(); err != nil {
			return fmt.Errorf("failed to connect: %w", err)
		}

		go func() {
			for evt := range qrChan {
				if evt.Event == "code" {
					w.log.Info("Scan the QR code below to pair the WhatsApp channel")
					qrterminal.GenerateHalfBlock(evt.Code, qrterminal.L, os.Stdout)
				} else {
					w.log.WithField("event", evt.Event).Info("WhatsApp pairing event")
				}
			}
		}()
	} else if err := w.client.Connect(); err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}

	select {
	case <-connected:
		w.log.Info("WhatsApp connected")
		return nil
	case <-time.After(connectTimeout):
		return errors.New("whatsapp connection timeout")
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (w *whatsappSender) onMessage(evt *events.Message) {
	if !shouldHandle(evt.Info) || w.handler == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), replyTimeout)
	defer cancel()

	fields := logrus.Fields{
		"sender_id": evt.Info.Sender.User,
		"push_name": evt.Info.PushName,
	}

	text := messageText(evt.Message)
	if text == "" && evt.Message.GetAudioMessage() != nil && w.transcriber != nil {
		var err error
		text, err = w.transcribe(ctx, evt.Message.GetAudioMessage())
		if err != nil {
			fields["error"] = err.Error()
			w.log.WithFields(fields).Warn("Failed to transcribe voice note")
			return
		}
	}
	if text == "" {
		return
	}

	reply, err := w.handler(ctx, evt.Info.Sender.User, text)
	if err != nil {
		fields["error"] = err.Error()
		w.log.WithFields(fields).Warn("Failed to handle WhatsApp message")
		return
	}
	if reply == "" {
		return
	}

	if _, err := w.client.SendMessage(ctx, evt.Info.Chat, textMessage(reply)); err != nil {
		fields["error"] = err.Error()
		w.log.WithFields(fields).Error("Failed to send WhatsApp reply")
	}
}

func (w *whatsappSender) transcribe(ctx context.Context, audio *waProto.AudioMessage) (string, error) {
	data, err := w.client.Download(ctx, audio)
	if err != nil {
		return "", fmt.Errorf("failed to download voice note: %w", err)
	}
	return w.transcriber.Transcribe(ctx, audioFileName(audio.GetMimetype()), data)
}

func (w *whatsappSender) SendMessage(ctx context.Context, phoneNumber, message string) error {
	digits := utils.PhoneDigits(phoneNumber)
	if digits == "" {
		return fmt.Errorf("invalid phone number %q", phoneNumber)
	}

	jid := types.NewJID(digits, types.DefaultUserServer)
	if _, err := w.client.SendMessage(ctx, jid, textMessage(message)); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}

	return nil
}

func (w *whatsappSender) Disconnect() error {
	w.client.Disconnect()
	return nil
}

func (w *whatsappSender) IsConnected() bool {
	return w.client.IsConnected()
}

func shouldHandle(info types.MessageInfo) bool {
	return !info.IsFromMe && !info.IsGroup && info.Chat.User != "status"
}

func messageText(msg *waProto.Message) string {
	if msg == nil {
		return ""
	}
	if text := msg.GetConversation(); text != "" {
		return strings.TrimSpace(text)
	}
	return strings.TrimSpace(msg.GetExtendedTextMessage().GetText())
}

func textMessage(text string) *waProto.Message {
	return &waProto.Message{
		Conversation: proto.String(text),
	}
}

// audioFileName picks a name whose extension matches the voice note format.
func audioFileName(mimetype string) string {
	switch {
	case strings.Contains(mimetype, "mpeg"):
		return "voice.mp3"
	case strings.Contains(mimetype, "mp4"), strings.Contains(mimetype, "aac"):
		return "voice.m4a"
	default:
		return "voice.ogg"
	}
}
