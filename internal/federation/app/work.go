package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"federation_video_service/internal/federation/domain"

	"github.com/streadway/amqp" // RabbitMQ 客戶端
)

// Consumer 定義傳送工作的消費者，將所有必要的依賴注入進來
type Consumer struct {
	rabbitChannel *amqp.Channel
	httpClient    *http.Client
	queueName     string
}

// NewConsumer 建構 Consumer 實例
func NewConsumer(rabbitChannel *amqp.Channel, queueName string) *Consumer {
	return &Consumer{
		rabbitChannel: rabbitChannel,
		httpClient:    &http.Client{Timeout: 30 * time.Second},
		queueName:     queueName,
	}
}

// StartConsumer 開始消費訊息，把傳送工作送到目標 pod
func (c *Consumer) StartConsumer(ctx context.Context) {
	msgs, err := c.rabbitChannel.Consume(
		c.queueName, // 使用依賴注入進來的 queue name
		"",          // consumer tag，留空由系統分配
		false,       // autoAck 為 false，使用手動確認
		false,       // exclusive
		false,       // noLocal
		false,       // noWait
		nil,         // arguments
	)
	if err != nil {
		log.Fatalf("無法開始消費 RabbitMQ 訊息: %v", err)
	}

	log.Println("Consumer 已啟動，等待傳送工作訊息...")

	for {
		select {
		case d, ok := <-msgs:
			if !ok {
				log.Println("RabbitMQ 消費 channel 已關閉")
				return
			}

			var job domain.DeliveryJob
			if err := json.Unmarshal(d.Body, &job); err != nil {
				log.Printf("解析傳送工作訊息失敗: %v", err)
				// 格式錯誤的工作 requeue 也不會變好，直接丟棄
				if err := d.Nack(false, false); err != nil {
					log.Printf("Nack 訊息失敗: %v", err)
				}
				continue
			}

			if err := c.deliver(ctx, job); err != nil {
				log.Printf("傳送到 %s 失敗: %v", job.TargetHost, err)
				// 對端可能暫時離線，退避後 requeue 重試
				time.Sleep(10 * time.Second)
				if err := d.Nack(false, true); err != nil {
					log.Printf("Nack 訊息失敗: %v", err)
				}
				continue
			}

			if err := d.Ack(false); err != nil {
				log.Printf("確認訊息失敗: %v", err)
			}
		case <-ctx.Done():
			log.Println("Consumer 收到停止訊號")
			return
		}
	}
}

// deliver 把 job body POST 到目標 pod 的 inbox
func (c *Consumer) deliver(ctx context.Context, job domain.DeliveryJob) error {
	url := fmt.Sprintf("https://%s%s", job.TargetHost, job.Endpoint)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(job.Body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	// 422 代表對端拒絕了部分內容，重送同樣的 body 不會改變結果
	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("remote pod returned %d", resp.StatusCode)
	}
	return nil
}
