package adminService

import (
	"context"

	"IsraBot/internal/api/admin"
	contextPkg "IsraBot/pkg/context"
	jwtPkg "IsraBot/pkg/jwt"
	"IsraBot/pkg/utils"
	"github.com/sirupsen/logrus"
)

const adminRole = "admin"

func (s *adminService) Login(ctx context.Context, req admin.LoginRequest) (admin.LoginResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	if s.config.Username == "" || s.config.PasswordHash == "" {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
		}).Error("Admin login attempted without configured credentials")
		return admin.LoginResponse{}, admin.ErrAdminNotConfigured
	}

	if req.Username != s.config.Username {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"username":   req.Username,
		}).Warn("Unknown admin username")
		return admin.LoginResponse{}, admin.ErrInvalidCredentials
	}

	if err := s.bcrypt.ComparePassword(s.config.PasswordHash, req.Password); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"username":   req.Username,
		}).Warn("Admin password mismatch")
		return admin.LoginResponse{}, admin.ErrInvalidCredentials
	}

	token, expiresAt, err := jwtPkg.Sign(map[string]interface{}{
		"username": req.Username,
		"role":     adminRole,
	}, s.config.TokenTTL)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to sign admin token")
		return admin.LoginResponse{}, err
	}

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"username":   req.Username,
	}).Info("Admin logged in")

	return admin.LoginResponse{
		AccessToken: token,
		ExpiresAt:   expiresAt,
	}, nil
}

// SendMessage delivers an operator message over WhatsApp and pauses the bot
// for that sender if it is not already paused.
func (s *adminService) SendMessage(ctx context.Context, operator string, req admin.SendMessageRequest) error {
	requestID := contextPkg.GetRequestID(ctx)

	if s.whatsapp == nil || !s.whatsapp.IsConnected() {
		return admin.ErrWhatsappDisabled
	}

	phone := utils.PhoneDigits(req.SenderID)
	if err := s.whatsapp.SendMessage(ctx, phone, req.Text); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"sender_id":  req.SenderID,
			"error":      err.Error(),
		}).Error("Failed to send operator message")
		return admin.ErrSendFailed
	}

	s.chatbot.RecordOperatorMessage(ctx, req.SenderID, operator, req.Text)

	active, err := s.handoffActive(ctx, req.SenderID)
	if err != nil {
		return err
	}
	if active {
		return nil
	}

	if _, err := s.chatbot.StartHandoff(ctx, req.SenderID, operator, 0); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"sender_id":  req.SenderID,
			"error":      err.Error(),
		}).Error("Failed to start handoff after operator message")
		return err
	}

	return nil
}

func (s *adminService) handoffActive(ctx context.Context, senderID string) (bool, error) {
	handoffs, err := s.chatbot.ListHandoffs(ctx)
	if err != nil {
		return false, err
	}
	for _, h := range handoffs {
		if h.SenderID == senderID {
			return true, nil
		}
	}
	return false, nil
}
