package services

import "errors"

// Erros de domínio. Os serviços sempre embrulham um destes valores,
// então os handlers decidem o status HTTP com errors.Is.
var (
	// ErrInvalidArgument indica entrada inválida: nome vazio, quantidade
	// de cotas ou preço não positivos, valor de aporte não positivo.
	ErrInvalidArgument = errors.New("argumento inválido")

	// ErrNotFound indica empreendimento ou bem inexistente.
	ErrNotFound = errors.New("registro não encontrado")

	// ErrCapacityExceeded indica que o aporte compraria mais cotas do que
	// a entidade ainda tem disponíveis. Nada é vendido parcialmente.
	ErrCapacityExceeded = errors.New("capacidade de cotas excedida")
)
