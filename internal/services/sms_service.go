package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
)

// SMSService отправляет коды подтверждения по SMS и хранит их в Redis
type SMSService struct {
	gatewayURL  string
	apiKey      string
	sender      string
	redisClient *redis.Client
}

func NewSMSService(redisClient *redis.Client) *SMSService {
	return &SMSService{
		gatewayURL:  os.Getenv("SMS_GATEWAY_URL"),
		apiKey:      os.Getenv("SMS_API_KEY"),
		sender:      os.Getenv("SMS_SENDER"),
		redisClient: redisClient,
	}
}

// GenerateVerificationCode генерирует случайный шестизначный код
func (s *SMSService) GenerateVerificationCode() string {
	return fmt.Sprintf("%06d", rand.Intn(1000000))
}

// SaveVerificationCode сохраняет код подтверждения в Redis на 5 минут
func (s *SMSService) SaveVerificationCode(ctx context.Context, phone, code string) error {
	if s.redisClient == nil {
		return fmt.Errorf("Redis недоступен, код подтверждения не сохранен")
	}
	key := fmt.Sprintf("verification_code:%s", phone)

	if err := s.redisClient.Set(ctx, key, code, 5*time.Minute).Err(); err != nil {
		return fmt.Errorf("ошибка при сохранении кода в Redis: %w", err)
	}
	return nil
}

// VerifyCode проверяет код подтверждения. Верный код удаляется сразу,
// чтобы его нельзя было использовать повторно.
func (s *SMSService) VerifyCode(ctx context.Context, phone, code string) (bool, error) {
	if s.redisClient == nil {
		return false, fmt.Errorf("Redis недоступен, проверка кода невозможна")
	}
	key := fmt.Sprintf("verification_code:%s", phone)

	savedCode, err := s.redisClient.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, fmt.Errorf("код подтверждения истек или не существует")
	} else if err != nil {
		return false, fmt.Errorf("ошибка при получении кода из Redis: %w", err)
	}

	isValid := savedCode == code
	if isValid {
		s.redisClient.Del(ctx, key)
	}

	return isValid, nil
}

// SendVerificationCode отправляет код подтверждения на номер телефона.
// Без настроенного шлюза (режим разработки) код только пишется в лог.
func (s *SMSService) SendVerificationCode(ctx context.Context, phone, code string) error {
	if phone == "" {
		return fmt.Errorf("номер телефона не может быть пустым")
	}

	// Оставляем только цифры
	normalized := strings.TrimSpace(phone)
	normalized = strings.TrimPrefix(normalized, "+")
	for _, r := range normalized {
		if r < '0' || r > '9' {
			return fmt.Errorf("номер телефона должен содержать только цифры: %s", phone)
		}
	}
	if len(normalized) < 10 || len(normalized) > 15 {
		return fmt.Errorf("неверная длина номера телефона: %s", phone)
	}

	if err := s.SaveVerificationCode(ctx, phone, code); err != nil {
		return fmt.Errorf("ошибка при сохранении кода: %w", err)
	}

	if s.gatewayURL == "" || s.apiKey == "" {
		log.Printf("SMS шлюз не настроен, код для %s: %s", phone, code)
		return nil
	}

	message := fmt.Sprintf("Ваш код подтверждения: %s\n\nНикому не сообщайте этот код.", code)

	payload := map[string]interface{}{
		"to":      normalized,
		"from":    s.sender,
		"message": message,
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("ошибка при маршалинге данных: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.gatewayURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("ошибка при создании запроса: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("ошибка при отправке SMS: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("неожиданный статус ответа SMS шлюза: %d, тело: %s", resp.StatusCode, string(bodyBytes))
	}

	log.Printf("Код подтверждения отправлен на номер %s", phone)
	return nil
}
