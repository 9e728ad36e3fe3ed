package entity_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/estoque-pdv/internal/domain"
	"github.com/jhoicas/estoque-pdv/internal/domain/entity"
)

var t0 = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

func TestOrderStatus_TablaDeTransiciones(t *testing.T) {
	cases := []struct {
		from   entity.OrderStatus
		action entity.OrderAction
		to     entity.OrderStatus
		ok     bool
	}{
		{entity.OrderStatusAguardando, entity.OrderActionAdvance, entity.OrderStatusPreparado, true},
		{entity.OrderStatusAguardando, entity.OrderActionCancel, entity.OrderStatusCancelado, true},
		{entity.OrderStatusAguardando, entity.OrderActionShip, "", false},
		{entity.OrderStatusPreparado, entity.OrderActionShip, entity.OrderStatusEnviado, true},
		{entity.OrderStatusPreparado, entity.OrderActionCancel, entity.OrderStatusCancelado, true},
		{entity.OrderStatusPreparado, entity.OrderActionAdvance, "", false},
		{entity.OrderStatusEnviado, entity.OrderActionCancel, "", false},
		{entity.OrderStatusEnviado, entity.OrderActionShip, "", false},
		{entity.OrderStatusCancelado, entity.OrderActionAdvance, "", false},
		{entity.OrderStatusCancelado, entity.OrderActionCancel, "", false},
	}
	for _, tc := range cases {
		t.Run(string(tc.from)+"/"+string(tc.action), func(t *testing.T) {
			got, err := tc.from.Next(tc.action)
			if !tc.ok {
				assert.ErrorIs(t, err, domain.ErrInvalidTransition)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.to, got)
		})
	}
}

func TestOrderStatus_Terminales(t *testing.T) {
	assert.True(t, entity.OrderStatusEnviado.IsTerminal())
	assert.True(t, entity.OrderStatusCancelado.IsTerminal())
	assert.False(t, entity.OrderStatusAguardando.IsTerminal())
	assert.False(t, entity.OrderStatus("OTRO").Valid())
}

func TestOrder_TransitionMarcaTimestamps(t *testing.T) {
	o := &entity.Order{Status: entity.OrderStatusAguardando, CreatedAt: t0}

	require.NoError(t, o.Transition(entity.OrderActionAdvance, t0.Add(90*time.Minute)))
	require.NotNil(t, o.PreparedAt)
	assert.Equal(t, entity.OrderStatusPreparado, o.Status)

	require.NoError(t, o.Transition(entity.OrderActionShip, t0.Add(2*time.Hour)))
	require.NotNil(t, o.ShippedAt)
	assert.Nil(t, o.CanceledAt)

	err := o.Transition(entity.OrderActionCancel, t0.Add(3*time.Hour))
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Equal(t, entity.OrderStatusEnviado, o.Status)
	assert.Nil(t, o.CanceledAt)
}

func TestOrder_LeadTimes(t *testing.T) {
	o := &entity.Order{Status: entity.OrderStatusAguardando, CreatedAt: t0}
	lt := o.LeadTimes()
	assert.Nil(t, lt.ToPrepare)
	assert.Nil(t, lt.ToShip)

	require.NoError(t, o.Transition(entity.OrderActionAdvance, t0.Add(90*time.Minute)))
	require.NoError(t, o.Transition(entity.OrderActionShip, t0.Add(110*time.Minute)))
	lt = o.LeadTimes()
	require.NotNil(t, lt.ToPrepare)
	require.NotNil(t, lt.ToShip)
	assert.InDelta(t, 1.5, *lt.ToPrepare, 0.001)
	assert.InDelta(t, 0.33, *lt.ToShip, 0.001)
}
