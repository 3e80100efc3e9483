// Package notificacao avisa sistemas externos sobre mudanças de status dos relatórios.
package notificacao

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

type Evento string

const (
	EventoEnviado    Evento = "relatorio.enviado"
	EventoConfirmado Evento = "relatorio.confirmado"
)

// Mensagem é o corpo JSON enviado ao webhook.
type Mensagem struct {
	Evento         Evento    `json:"evento"`
	RelatorioID    uint      `json:"relatorio_id"`
	VendedorID     uint      `json:"vendedor_id"`
	DestinatarioID *uint     `json:"destinatario_id,omitempty"`
	DataRelatorio  string    `json:"data_relatorio"`
	Status         string    `json:"status"`
	Em             time.Time `json:"em"`
}

// Notificador é chamado depois do commit; quem chama apenas registra a falha.
type Notificador interface {
	Notificar(ctx context.Context, m Mensagem) error
}

// Nop descarta as mensagens. Usado quando WEBHOOK_URL não está definida.
type Nop struct{}

func (Nop) Notificar(context.Context, Mensagem) error { return nil }

type Webhook struct {
	client *resty.Client
	url    string
	log    *zap.Logger
}

// New devolve Nop quando url é vazia.
func New(url string, timeout time.Duration, log *zap.Logger) Notificador {
	if url == "" {
		return Nop{}
	}
	client := resty.New().
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	return &Webhook{client: client, url: url, log: log.Named("webhook")}
}

func (w *Webhook) Notificar(ctx context.Context, m Mensagem) error {
	resp, err := w.client.R().
		SetContext(ctx).
		SetBody(m).
		Post(w.url)
	if err != nil {
		w.log.Warn("falha ao enviar webhook",
			zap.String("evento", string(m.Evento)),
			zap.Uint("relatorio_id", m.RelatorioID),
			zap.Error(err))
		return fmt.Errorf("enviar webhook: %w", err)
	}
	if resp.IsError() {
		w.log.Warn("webhook respondeu com erro",
			zap.String("evento", string(m.Evento)),
			zap.Uint("relatorio_id", m.RelatorioID),
			zap.Int("status_code", resp.StatusCode()))
		return fmt.Errorf("webhook respondeu %d", resp.StatusCode())
	}
	w.log.Debug("webhook enviado",
		zap.String("evento", string(m.Evento)),
		zap.Uint("relatorio_id", m.RelatorioID))
	return nil
}
