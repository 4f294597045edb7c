package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
)

type FirebaseService struct {
	serverKey string
	endpoint  string
}

type FCMPayload struct {
	To           string            `json:"to"`
	Data         map[string]string `json:"data,omitempty"`
	Notification struct {
		Title string `json:"title"`
		Body  string `json:"body"`
	} `json:"notification"`
}

func NewFirebaseService() *FirebaseService {
	endpoint := os.Getenv("FCM_ENDPOINT")
	if endpoint == "" {
		endpoint = "https://fcm.googleapis.com/fcm/send"
	}
	return &FirebaseService{
		serverKey: os.Getenv("FIREBASE_SERVER_KEY"),
		endpoint:  endpoint,
	}
}

// Enabled возвращает true, если настроен ключ сервера FCM
func (s *FirebaseService) Enabled() bool {
	return s.serverKey != ""
}

func (s *FirebaseService) SendPushNotification(ctx context.Context, token, title, body string, data map[string]string) error {
	if !s.Enabled() {
		log.Printf("FCM не настроен, уведомление %q не отправлено", title)
		return nil
	}

	payload := FCMPayload{
		To:   token,
		Data: data,
	}
	payload.Notification.Title = title
	payload.Notification.Body = body

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("ошибка при маршалинге уведомления: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("ошибка при создании запроса: %v", err)
	}

	req.Header.Set("Authorization", "key="+s.serverKey)
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("ошибка при отправке уведомления: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("FCM вернул ошибку: %v", resp.Status)
	}

	return nil
}
