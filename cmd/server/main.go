// cmd/server/main.go
package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cebdast/SEGIF-CARUARU/internal/api/handlers"
	"github.com/cebdast/SEGIF-CARUARU/internal/api/responses"
	"github.com/cebdast/SEGIF-CARUARU/internal/config"
	"github.com/cebdast/SEGIF-CARUARU/internal/core/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Falha ao carregar configuração: ", err)
	}

	responses.InitLogger()
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	gin.SetMode(cfg.GinMode)

	pipelineService := pipeline.NewService(logger)
	pipelineHandler := handlers.NewPipelineHandler(pipelineService)

	router := gin.Default()

	apiV1 := router.Group("/api/v1")
	{
		apiV1.POST("/transform/:formato", pipelineHandler.HandleTransform)
		apiV1.POST("/cruzamento/detectar", pipelineHandler.HandleDetectar)
		apiV1.POST("/cruzamento", pipelineHandler.HandleCruzamento)
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "UP", "service": "segif-pipeline"})
	})

	log.Printf("🚀 SEGIF Pipeline (Go) iniciado e escutando na porta %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal("Falha ao iniciar o servidor: ", err)
	}
}
