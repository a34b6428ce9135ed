// internal/api/responses/responses.go
package responses

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var logger *zap.Logger

// APIResponse define o envelope padrão das respostas JSON da API.
type APIResponse struct {
	Status  string      `json:"status"` // "success" ou "error"
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Errors  []string    `json:"errors,omitempty"`
}

// InitLogger inicializa o logger estruturado das respostas da API.
func InitLogger() {
	logger, _ = zap.NewProduction()
}

// Success envia uma resposta de sucesso com os dados e mensagem fornecidos.
func Success(c *gin.Context, data interface{}, message string) {
	resp := APIResponse{Status: "success", Data: data, Message: message}
	c.JSON(http.StatusOK, resp)
	logger.Info("API success", zap.String("path", c.Request.URL.Path), zap.Int("status", http.StatusOK))
}

// Error envia uma resposta de erro com o código, mensagem e detalhes opcionais.
func Error(c *gin.Context, code int, message string, errs ...string) {
	resp := APIResponse{Status: "error", Message: message, Errors: errs}
	c.JSON(code, resp)
	logger.Error("API error", zap.String("path", c.Request.URL.Path), zap.Int("status", code), zap.Strings("errors", errs))
}

// File envia um arquivo binário como download com o nome sugerido.
func File(c *gin.Context, filename, contentType string, data []byte) {
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, contentType, data)
	logger.Info("API file",
		zap.String("path", c.Request.URL.Path),
		zap.String("filename", filename),
		zap.Int("bytes", len(data)))
}
