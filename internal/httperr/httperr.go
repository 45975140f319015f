package httperr

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type HTTPError struct {
	Code    string `json:"error_code"`
	Message string `json:"message"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func NotFound(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Conflict(c *gin.Context, code, message string) {
	Write(c, http.StatusConflict, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

// StatusFor maps an error to the HTTP status it should be reported with.
func StatusFor(err error) int {
	code, ok := BusinessCode(err)
	switch {
	case !ok:
		if IsExclusionConflict(err) || IsUniqueViolation(err) {
			return http.StatusConflict
		}
		return http.StatusInternalServerError
	case isNotFoundCode(code):
		return http.StatusNotFound
	case conflictCodes[code]:
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}

// Respond writes err using the business code when there is one. Anything
// else is logged and hidden behind a generic internal error.
func Respond(c *gin.Context, err error) {
	status := StatusFor(err)
	if code, ok := BusinessCode(err); ok {
		Write(c, status, code, messages[code])
		return
	}

	if status == http.StatusConflict {
		Write(c, status, "conflict", "Registro em conflito.")
		return
	}

	log.Error().
		Err(err).
		Str("path", c.FullPath()).
		Str("method", c.Request.Method).
		Msg("unhandled error")
	Internal(c, "internal_error", "Erro interno.")
}

var messages = map[string]string{
	"time_conflict":               "Conflito de horário.",
	"invalid_state":               "Operação inválida para o status atual.",
	"too_soon":                    "Horário inválido.",
	"outside_working_hours":       "Fora do horário de atendimento.",
	"invalid_date_or_time":        "Data ou hora inválida.",
	"appointment_not_found":       "Agendamento não encontrado.",
	"service_not_found":           "Serviço não encontrado.",
	"professional_not_found":      "Profissional não encontrado.",
	"customer_not_found":          "Cliente não encontrado.",
	"product_not_found":           "Produto não encontrado.",
	"salon_not_found":             "Salão não encontrado.",
	"sale_not_found":              "Venda não encontrada.",
	"payable_not_found":           "Conta a pagar não encontrada.",
	"receivable_not_found":        "Conta a receber não encontrada.",
	"cash_register_not_found":     "Caixa não encontrado.",
	"cash_register_already_open":  "Já existe um caixa aberto.",
	"cash_register_closed":        "Nenhum caixa aberto.",
	"critical_difference_no_note": "Diferença crítica exige observação.",
	"insufficient_stock":          "Estoque insuficiente.",
	"invalid_amount":              "Valor inválido.",
	"invalid_quantity":            "Quantidade inválida.",
	"invalid_payment_method":      "Forma de pagamento inválida.",
	"invalid_discount":            "Desconto inválido.",
	"customer_required":           "Cliente obrigatório para venda a prazo.",
	"empty_sale":                  "Venda sem itens.",
	"nothing_to_pay":              "Nenhuma comissão pendente.",
	"payments_disabled":           "Pagamentos online não configurados.",
	"storage_disabled":            "Armazenamento não configurado.",
	"invalid_image":               "Imagem inválida.",
	"invalid_date":                "Data inválida.",
	"invalid_due_date":            "Data de vencimento inválida.",
	"invalid_period":              "Período inválido.",
	"invalid_status":              "Status inválido.",
	"invalid_movement_type":       "Tipo de movimentação inválido.",
	"invalid_reason":              "Motivo inválido.",
	"invalid_item_kind":           "Tipo de item inválido.",
	"description_required":        "Descrição obrigatória.",
	"name_required":               "Nome obrigatório.",
	"working_hours_not_found":     "Profissional sem expediente neste dia.",
	"slug_already_exists":         "Este endereço já está em uso.",
	"email_already_exists":        "Este e-mail já está cadastrado.",
	"queue_disabled":              "Fila de notificações não configurada.",
}
