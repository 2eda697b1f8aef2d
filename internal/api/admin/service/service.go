package adminService

import (
	"context"
	"time"

	"IsraBot/internal/api/admin"
	chatbotService "IsraBot/internal/api/chatbot/service"
	"IsraBot/pkg/bcrypt"
	"IsraBot/pkg/whatsapp"
	"github.com/sirupsen/logrus"
)

type IAdminService interface {
	Login(ctx context.Context, req admin.LoginRequest) (admin.LoginResponse, error)
	SendMessage(ctx context.Context, operator string, req admin.SendMessageRequest) error
}

type Config struct {
	Username     string
	PasswordHash string
	TokenTTL     time.Duration
}

type adminService struct {
	log      *logrus.Logger
	bcrypt   bcrypt.IBcrypt
	chatbot  chatbotService.IChatbotService
	whatsapp whatsapp.IWhatsappSender
	config   Config
}

// NewAdminService builds the operator service. wa may be nil when the
// WhatsApp channel is not running.
func NewAdminService(
	log *logrus.Logger,
	bcrypt bcrypt.IBcrypt,
	chatbot chatbotService.IChatbotService,
	wa whatsapp.IWhatsappSender,
	config Config,
) IAdminService {
	if config.TokenTTL <= 0 {
		config.TokenTTL = 12 * time.Hour
	}

	return &adminService{
		log:      log,
		bcrypt:   bcrypt,
		chatbot:  chatbot,
		whatsapp: wa,
		config:   config,
	}
}
