// Package memory implementa los puertos de persistencia en memoria (STORE_DRIVER=memory y tests).
// Cada escritura trabaja sobre una copia del estado que se publica solo si no hubo error,
// así una transacción fallida no deja rastros.
package memory

import (
	"sync"

	"github.com/jhoicas/estoque-pdv/internal/domain/entity"
)

type state struct {
	products   map[string]entity.Product
	movements  []entity.StockMovement
	sales      map[string]entity.Sale
	saleItems  map[string][]entity.SaleItem
	orders     map[string]entity.Order
	orderItems map[string][]entity.OrderItem
	outbox     []entity.OutboxEvent
	users      map[string]entity.User
}

func newState() *state {
	return &state{
		products:   map[string]entity.Product{},
		sales:      map[string]entity.Sale{},
		saleItems:  map[string][]entity.SaleItem{},
		orders:     map[string]entity.Order{},
		orderItems: map[string][]entity.OrderItem{},
		users:      map[string]entity.User{},
	}
}

func (s *state) clone() *state {
	c := &state{
		products:   make(map[string]entity.Product, len(s.products)),
		movements:  append([]entity.StockMovement(nil), s.movements...),
		sales:      make(map[string]entity.Sale, len(s.sales)),
		saleItems:  make(map[string][]entity.SaleItem, len(s.saleItems)),
		orders:     make(map[string]entity.Order, len(s.orders)),
		orderItems: make(map[string][]entity.OrderItem, len(s.orderItems)),
		outbox:     append([]entity.OutboxEvent(nil), s.outbox...),
		users:      make(map[string]entity.User, len(s.users)),
	}
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.sales {
		c.sales[k] = v
	}
	for k, v := range s.saleItems {
		c.saleItems[k] = append([]entity.SaleItem(nil), v...)
	}
	for k, v := range s.orders {
		c.orders[k] = v
	}
	for k, v := range s.orderItems {
		c.orderItems[k] = append([]entity.OrderItem(nil), v...)
	}
	for k, v := range s.users {
		c.users[k] = v
	}
	return c
}

// accessor abstrae si un repositorio ve el estado publicado o la copia de una transacción.
type accessor interface {
	read(fn func(st *state))
	write(fn func(st *state) error) error
}

// Store estado compartido. Las escrituras se serializan con txMu.
type Store struct {
	txMu sync.Mutex
	mu   sync.RWMutex
	data *state
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{data: newState()}
}

func (s *Store) read(fn func(st *state)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.data)
}

func (s *Store) write(fn func(st *state) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	work := s.data.clone()
	s.mu.RUnlock()

	if err := fn(work); err != nil {
		return err
	}
	s.mu.Lock()
	s.data = work
	s.mu.Unlock()
	return nil
}

// txView es la copia de trabajo de una transacción abierta.
type txView struct {
	st *state
}

func (v txView) read(fn func(st *state)) { fn(v.st) }
func (v txView) write(fn func(st *state) error) error { return fn(v.st) }

// Repositorios sobre el estado publicado (fuera de transacción).

func (s *Store) Products() *ProductRepo { return &ProductRepo{a: s} }
func (s *Store) Movements() *StockMovementRepo { return &StockMovementRepo{a: s} }
func (s *Store) Sales() *SaleRepo { return &SaleRepo{a: s} }
func (s *Store) Orders() *OrderRepo { return &OrderRepo{a: s} }
func (s *Store) Outbox() *OutboxRepo { return &OutboxRepo{a: s} }
func (s *Store) Users() *UserRepo { return &UserRepo{a: s} }
