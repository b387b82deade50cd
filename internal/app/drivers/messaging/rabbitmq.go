package messaging

import (
	"fmt"
	"log"
	"net/url"
	"oncobilling-service/internal/app/config"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

const rabbitMQHeartbeat = 10 * time.Second

func NewRabbitMQ(driverConfig *config.DriverConfig) *amqp091.Connection {
	connectionString := fmt.Sprintf(
		"amqp://%s:%s@%s:%s/%s",
		url.QueryEscape(driverConfig.RabbitMQ.Username),
		url.QueryEscape(driverConfig.RabbitMQ.Password),
		driverConfig.RabbitMQ.Host,
		driverConfig.RabbitMQ.Port,
		url.PathEscape(driverConfig.RabbitMQ.VirtualHost),
	)

	properties := amqp091.NewConnectionProperties()
	properties.SetClientConnectionName("oncobilling-service")

	conn, err := amqp091.DialConfig(connectionString, amqp091.Config{
		Heartbeat:  rabbitMQHeartbeat,
		Properties: properties,
	})
	if err != nil {
		log.Fatalf("Failed to connect to rabbitMQ: %s", err.Error())
	}
	log.Println("Successfully connected to rabbitMQ")
	return conn
}
