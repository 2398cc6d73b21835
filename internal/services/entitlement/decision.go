package entitlement

import (
	"errors"

	"github.com/magabrotheeeer/nemtsvar/internal/models"
)

var (
	// ErrPaymentRequired у пользователя нет доступа
	ErrPaymentRequired = errors.New("active subscription required")
	// ErrFreeQuestionExhausted бесплатный вопрос в чате уже задан или отвечен
	ErrFreeQuestionExhausted = errors.New("free question already used")
	// ErrNoUserMessageYet ответ ассистента раньше вопроса пользователя
	ErrNoUserMessageYet = errors.New("no user message found")
)

// ChatDecision результат проверки создания чата.
type ChatDecision struct {
	IsFree              bool
	ConsumeFreeQuestion bool
}

// AuthorizeChat решает, может ли пользователь создать чат и будет ли он бесплатным.
func AuthorizeChat(s Snapshot) (ChatDecision, error) {
	hasSubscription := s.HasSubscription()
	if !hasSubscription && !s.FreePeriodActive && s.FreeQuestionsRemaining <= 0 {
		return ChatDecision{}, ErrPaymentRequired
	}

	isFree := !hasSubscription && !s.FreePeriodActive
	return ChatDecision{
		IsFree:              isFree,
		ConsumeFreeQuestion: isFree && s.FreeQuestionsRemaining > 0,
	}, nil
}

// MessagePath способ обработки сообщения после проверки доступа.
type MessagePath int

const (
	// PathUnrestricted сообщение добавляется без ограничений
	PathUnrestricted MessagePath = iota
	// PathFreeQuestion сообщение проходит через автомат бесплатного чата
	PathFreeQuestion
)

func (p MessagePath) String() string {
	switch p {
	case PathUnrestricted:
		return "unrestricted"
	case PathFreeQuestion:
		return "free_question"
	default:
		return "unknown"
	}
}

// AuthorizeMessage решает, по какому пути пойдет сообщение в чат.
// Счётчик бесплатных вопросов здесь не учитывается: он расходуется при создании чата.
func AuthorizeMessage(s Snapshot, chatIsFree bool) (MessagePath, error) {
	if s.HasSubscription() || s.FreePeriodActive {
		return PathUnrestricted, nil
	}
	if !chatIsFree {
		return PathUnrestricted, ErrPaymentRequired
	}
	return PathFreeQuestion, nil
}

// FreeChatState состояние бесплатного чата с одним вопросом.
type FreeChatState int

const (
	// StateEmpty в чате нет сообщений пользователя
	StateEmpty FreeChatState = iota
	// StateAwaitingAnswer вопрос задан, ответа ещё нет
	StateAwaitingAnswer
	// StateAnswered вопрос задан и получен ответ
	StateAnswered
)

func (s FreeChatState) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateAwaitingAnswer:
		return "awaiting_answer"
	case StateAnswered:
		return "answered"
	default:
		return "unknown"
	}
}

// FreeChatStateOf определяет состояние по количеству сообщений.
func FreeChatStateOf(c models.RoleCounts) FreeChatState {
	switch {
	case c.User == 0:
		return StateEmpty
	case c.Assistant == 0:
		return StateAwaitingAnswer
	default:
		return StateAnswered
	}
}

// AuthorizeFreeMessage проверяет переход автомата бесплатного чата.
func AuthorizeFreeMessage(role models.MessageRole, state FreeChatState) error {
	switch state {
	case StateEmpty:
		if role == models.MessageRoleAssistant {
			return ErrNoUserMessageYet
		}
		return nil
	case StateAwaitingAnswer:
		if role == models.MessageRoleAssistant {
			return nil
		}
		return ErrFreeQuestionExhausted
	default:
		return ErrFreeQuestionExhausted
	}
}

// FreeMessageGuard возвращает проверку для транзакционного добавления сообщения.
func FreeMessageGuard(role models.MessageRole) func(models.RoleCounts) error {
	return func(c models.RoleCounts) error {
		return AuthorizeFreeMessage(role, FreeChatStateOf(c))
	}
}
