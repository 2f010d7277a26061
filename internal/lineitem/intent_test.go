package lineitem_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/gstbook/internal/lineitem"
)

func TestIntents(t *testing.T) {
	var in lineitem.Intents

	assert.Equal(t, lineitem.FieldNone, in.IntentFor(7))

	in.MarkEdited(0, lineitem.FieldQuantity)
	in.MarkEdited(0, lineitem.FieldLineTotal)
	in.MarkEdited(1, lineitem.FieldTaxRatePercent)
	in.MarkEdited(-1, lineitem.FieldAmount)

	assert.Equal(t, lineitem.FieldLineTotal, in.IntentFor(0))
	assert.Equal(t, lineitem.FieldNone, in.IntentFor(1))
	assert.Equal(t, map[int]lineitem.Field{0: lineitem.FieldLineTotal}, in.Snapshot())

	restored := lineitem.IntentsFrom(map[int]lineitem.Field{2: lineitem.FieldAmount, 3: "bogus"})
	assert.Equal(t, lineitem.FieldAmount, restored.IntentFor(2))
	assert.Equal(t, 1, restored.Len())
}
