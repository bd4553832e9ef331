package embed

import (
	"reflect"
	"strings"
	"sync"

	"github.com/elliotchance/orderedmap"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

// ResourceKey is the discriminant attribute.
const ResourceKey = "resource"

var ErrMissingResource = errors.New("embed has no data-resource attribute")

var (
	factoriesMu sync.RWMutex
	factories   = map[Resource]func() Embed{
		ResourceImage:      func() Embed { return &Image{} },
		ResourceBrightcove: func() Embed { return &Brightcove{} },
		ResourceExternal:   func() Embed { return &External{} },
		ResourceIframe:     func() Embed { return &Iframe{} },
		ResourceAudio:      func() Embed { return &Audio{} },
		ResourceH5P:        func() Embed { return &H5P{} },
		ResourceFile:       func() Embed { return &File{} },
		ResourceConcept:    func() Embed { return &Concept{} },
		ResourceComment:    func() Embed { return &Comment{} },
	}
)

// Register adds a variant for a resource. The factory must return a
// pointer to a struct whose string fields carry `attr` tags.
func Register(resource Resource, factory func() Embed) {
	factoriesMu.Lock()
	defer factoriesMu.Unlock()
	factories[resource] = factory
}

type fieldSpec struct {
	index     int
	key       string
	omitEmpty bool
}

type variantSpec struct {
	fields []fieldSpec
	extra  int // index of the Extra field or -1
}

var (
	specCache sync.Map // reflect.Type -> *variantSpec
	attrsType = reflect.TypeOf([]Attr(nil))
)

func specOf(t reflect.Type) *variantSpec {
	if v, ok := specCache.Load(t); ok {
		return v.(*variantSpec)
	}
	spec := &variantSpec{extra: -1}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Name == "Extra" && f.Type == attrsType {
			spec.extra = i
			continue
		}
		tag, ok := f.Tag.Lookup("attr")
		if !ok || f.Type.Kind() != reflect.String {
			continue
		}
		key, opts, _ := strings.Cut(tag, ",")
		spec.fields = append(spec.fields, fieldSpec{
			index:     i,
			key:       key,
			omitEmpty: opts == "omitempty",
		})
	}
	specCache.Store(t, spec)
	return spec
}

// Encode returns the attributes of e: resource first, then the variant's
// fields in declaration order, then unknown attributes in their original
// order.
func Encode(e Embed) []Attr {
	result := []Attr{{Key: ResourceKey, Value: string(e.Resource())}}

	if g, ok := e.(*Generic); ok {
		return append(result, g.Attrs...)
	}

	v := reflect.ValueOf(e).Elem()
	spec := specOf(v.Type())
	for _, f := range spec.fields {
		value := v.Field(f.index).String()
		if f.omitEmpty && value == "" {
			continue
		}
		result = append(result, Attr{Key: f.key, Value: value})
	}
	if spec.extra >= 0 {
		result = append(result, v.Field(spec.extra).Interface().([]Attr)...)
	}
	return result
}

// Decode builds the variant named by the resource attribute. Duplicate
// keys keep their first value. Unknown keys are kept in Extra.
func Decode(attrs []Attr) (Embed, error) {
	m := orderedmap.NewOrderedMap()
	for _, a := range attrs {
		if _, exists := m.Get(a.Key); !exists {
			m.Set(a.Key, a.Value)
		}
	}

	raw, ok := m.Get(ResourceKey)
	if !ok || raw.(string) == "" {
		return nil, ErrMissingResource
	}
	resource := Resource(raw.(string))
	m.Delete(ResourceKey)

	factoriesMu.RLock()
	factory, known := factories[resource]
	factoriesMu.RUnlock()

	if !known {
		return &Generic{Res: resource, Attrs: remaining(m)}, nil
	}

	e := factory()
	v := reflect.ValueOf(e).Elem()
	spec := specOf(v.Type())
	for _, f := range spec.fields {
		if value, ok := m.Get(f.key); ok {
			v.Field(f.index).SetString(value.(string))
			m.Delete(f.key)
		}
	}
	if spec.extra >= 0 {
		if rest := remaining(m); len(rest) > 0 {
			v.Field(spec.extra).Set(reflect.ValueOf(rest))
		}
	}
	return e, nil
}

func remaining(m *orderedmap.OrderedMap) []Attr {
	if m.Len() == 0 {
		return nil
	}
	result := make([]Attr, 0, m.Len())
	for el := m.Front(); el != nil; el = el.Next() {
		result = append(result, Attr{Key: el.Key.(string), Value: el.Value.(string)})
	}
	return result
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the variant's required and constrained fields.
// Generic payloads are always valid.
func Validate(e Embed) error {
	if _, ok := e.(*Generic); ok {
		return nil
	}
	if err := validate.Struct(e); err != nil {
		return errors.Wrapf(err, "invalid %s embed", e.Resource())
	}
	return nil
}

// Get returns the encoded value of key, looking at known fields and
// Extra alike.
func Get(e Embed, key string) (string, bool) {
	for _, a := range Encode(e) {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}
