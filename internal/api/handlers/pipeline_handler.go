package handlers

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cebdast/SEGIF-CARUARU/internal/api/responses"
	"github.com/cebdast/SEGIF-CARUARU/internal/core/pipeline"
	"github.com/cebdast/SEGIF-CARUARU/internal/core/transform"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// PipelineHandler lida com as requisições da API do pipeline SEGIF.
type PipelineHandler struct {
	service pipeline.Service
}

// NewPipelineHandler cria um novo handler do pipeline.
func NewPipelineHandler(service pipeline.Service) *PipelineHandler {
	return &PipelineHandler{
		service: service,
	}
}

func extensaoSuportada(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return ext == ".xlsx" || ext == ".xls" || ext == ".xlsm"
}

// HandleTransform transforma um único relatório no formato indicado na rota
// e devolve o .xlsx transformado.
func (h *PipelineHandler) HandleTransform(c *gin.Context) {
	formato := transform.Format(c.Param("formato"))
	if !formato.Valid() {
		responses.Error(c, http.StatusBadRequest, fmt.Sprintf("Formato de transformação desconhecido: %s", c.Param("formato")))
		return
	}

	fileHeader, err := c.FormFile("arquivo")
	if err != nil {
		responses.Error(c, http.StatusBadRequest, "Arquivo (.xls, .xlsx, .xlsm) não encontrado ou inválido")
		return
	}
	if !extensaoSuportada(fileHeader.Filename) {
		responses.Error(c, http.StatusBadRequest, fmt.Sprintf("Extensão de arquivo não suportada: %s", filepath.Ext(fileHeader.Filename)))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		responses.Error(c, http.StatusInternalServerError, "Não foi possível abrir o arquivo enviado")
		return
	}
	defer file.Close()

	output, stats, err := h.service.TransformFile(file, fileHeader.Filename, formato)
	if err != nil {
		responses.Error(c, http.StatusInternalServerError, "Erro ao transformar o arquivo", err.Error())
		return
	}

	fileName := fmt.Sprintf("%s_%s.xlsx", formato, time.Now().Format("20060102_150405"))
	c.Header("X-Linhas-Original", fmt.Sprint(stats.LinhasOriginal))
	c.Header("X-Linhas-Final", fmt.Sprint(stats.LinhasFinal))
	responses.File(c, fileName, xlsxContentType, output)
}

// detectarRequest é o corpo de POST /cruzamento/detectar.
type detectarRequest struct {
	Arquivos []string `json:"arquivos" binding:"required"`
}

// HandleDetectar atribui papéis do cruzamento a uma lista de nomes de
// arquivo, sem processar conteúdo.
func (h *PipelineHandler) HandleDetectar(c *gin.Context) {
	var req detectarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Error(c, http.StatusBadRequest, "Corpo inválido: esperado {\"arquivos\": [...]}", err.Error())
		return
	}

	result := h.service.DetectRoles(req.Arquivos)
	responses.Success(c, result, "Detecção concluída")
}

// HandleCruzamento recebe os relatórios do mês (multipart, campo "arquivos"),
// detecta o papel de cada um, roda as transformações e o cruzamento e devolve
// o .xlsx final de 5 abas. O modo V2 é ativado pelo campo de formulário "v2".
func (h *PipelineHandler) HandleCruzamento(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		responses.Error(c, http.StatusBadRequest, "Formulário multipart inválido")
		return
	}
	fileHeaders := form.File["arquivos"]
	if len(fileHeaders) == 0 {
		responses.Error(c, http.StatusBadRequest, "Nenhum arquivo enviado no campo 'arquivos'")
		return
	}

	var files []pipeline.NamedFile
	var abertos []interface{ Close() error }
	defer func() {
		for _, f := range abertos {
			f.Close()
		}
	}()
	for _, fh := range fileHeaders {
		f, err := fh.Open()
		if err != nil {
			responses.Error(c, http.StatusInternalServerError, fmt.Sprintf("Não foi possível abrir o arquivo %s", fh.Filename))
			return
		}
		abertos = append(abertos, f)
		files = append(files, pipeline.NamedFile{Name: fh.Filename, Reader: f})
	}

	opts := pipeline.CruzamentoOptions{V2: c.PostForm("v2") == "true"}

	resultado, stats, err := h.service.Cruzamento(files, opts)
	if err != nil {
		responses.Error(c, http.StatusUnprocessableEntity, "Erro ao executar o cruzamento", err.Error())
		return
	}

	output, err := resultado.Workbook()
	if err != nil {
		responses.Error(c, http.StatusInternalServerError, "Erro ao gerar a planilha final", err.Error())
		return
	}

	fileName := fmt.Sprintf("Cruzamento_%s.xlsx", time.Now().Format("20060102_150405"))
	c.Header("X-Fases-Aplicadas", strings.Join(stats.FasesAplicadas, ","))
	responses.File(c, fileName, xlsxContentType, output)
}
