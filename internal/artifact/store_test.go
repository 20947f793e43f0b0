package artifact

import (
	"testing"

	"github.com/packagewjx/ds-toolbelt/internal/transform"
	"github.com/packagewjx/ds-toolbelt/pkg/core"
	"github.com/stretchr/testify/assert"
)

func TestStore(t *testing.T) {
	store := NewStore(t.TempDir())
	assert.False(t, store.Exists(transform.KindFeatureTransformer))

	f, err := transform.NewFeatureTransformer(transform.FeatureTransformerConfig{
		TransformerMeta: []transform.FeatureSpec{
			{Operation: "add", FeatureName: "total", Columns: []string{"a", "b"}},
			{Operation: "round", FeatureName: "r", Columns: []string{"total"}, Params: map[string]interface{}{"decimals": 1}},
		},
	})
	if !assert.NoError(t, err) {
		assert.FailNow(t, "构造FeatureTransformer失败")
	}
	assert.NoError(t, store.Save(f))
	assert.True(t, store.Exists(transform.KindFeatureTransformer))

	restored, err := store.Load(transform.KindFeatureTransformer)
	if !assert.NoError(t, err) {
		assert.FailNow(t, "恢复失败")
	}
	assert.Equal(t, transform.KindFeatureTransformer, restored.Kind())

	data, _ := core.FromRows([]string{"a", "b"}, [][]interface{}{{1.04, 2}})
	out, err := restored.Transform(data)
	assert.NoError(t, err)
	v, _ := out.Value("r", 0)
	assert.Equal(t, 3.0, v)

	_, err = store.Load(transform.KindScaler)
	assert.Error(t, err)
}
