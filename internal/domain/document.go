package domain

// Document is satisfied by pointers to entity types whose identifier is owned
// by the storage layer. Collections use it to stamp ids onto values of T.
type Document[T any] interface {
	*T
	GetID() string
	SetID(id string)
}
