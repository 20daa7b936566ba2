package dispatch

import (
	"errors"
	"testing"

	"github.com/calder-lang/mono/pkg/mono"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type dog struct{ name string }

func speakable() *mono.Iface {
	return mono.NewIface("Speakable",
		mono.Method{Name: "Speak", Return: "string"},
		mono.Method{Name: "Name", Return: "string"},
	)
}

func dogImpl() Impl {
	return Impl{
		"Speak": func(recv any, _ ...any) any { return "woof" },
		"Name":  func(recv any, _ ...any) any { return recv.(dog).name },
	}
}

func TestObjectSafety_Rules(t *testing.T) {
	t.Parallel()
	in := mono.NewInterner()

	cases := []struct {
		name  string
		iface *mono.Iface
		rule  mono.SafetyRule
	}{
		{
			name:  "returns implementing type",
			iface: mono.NewIface("Cloneable", mono.Method{Name: "Clone", ReturnsSelf: true}),
			rule:  mono.RuleReturnsSelf,
		},
		{
			name:  "own type parameters",
			iface: mono.NewIface("Mappable", mono.Method{Name: "MapTo", TypeParams: 1}),
			rule:  mono.RuleOwnTypeParams,
		},
		{
			name:  "associated constant",
			iface: mono.NewIface("Bounded", mono.Method{Name: "MaxValue", Const: true}),
			rule:  mono.RuleAssociatedConst,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			reg := NewRegistry(in)
			require.NoError(t, reg.RegisterIface(tc.iface))

			err := reg.ObjectSafe(tc.iface.Name)
			var safetyErr *mono.ObjectSafetyError
			require.ErrorAs(t, err, &safetyErr)
			assert.Equal(t, tc.rule, safetyErr.Rule)
			assert.Equal(t, tc.iface.Name, safetyErr.Iface)
		})
	}
}

func TestObjectSafety_SafeInterface(t *testing.T) {
	t.Parallel()
	in := mono.NewInterner()
	reg := NewRegistry(in)

	require.NoError(t, reg.RegisterIface(speakable()))
	assert.NoError(t, reg.ObjectSafe("Speakable"))
}

func TestRegisterDynamic_FailsFastOnUnsafeInterface(t *testing.T) {
	t.Parallel()
	in := mono.NewInterner()
	reg := NewRegistry(in)

	cloneable := mono.NewIface("Cloneable", mono.Method{Name: "Clone", ReturnsSelf: true})
	require.NoError(t, reg.RegisterIface(cloneable))

	dogT := in.Named("Dog")
	err := reg.RegisterDynamic(dogT, "Cloneable", Impl{
		"Clone": func(recv any, _ ...any) any { return recv },
	})

	var safetyErr *mono.ObjectSafetyError
	require.ErrorAs(t, err, &safetyErr)
	// Rejected at registration: no implementation recorded, no table built.
	assert.False(t, reg.Implements(dogT, "Cloneable"))
	assert.Empty(t, reg.Tables())
}

func TestRegister_UnsafeInterfaceStaysUsableStatically(t *testing.T) {
	t.Parallel()
	in := mono.NewInterner()
	reg := NewRegistry(in)

	cloneable := mono.NewIface("Cloneable", mono.Method{Name: "Clone", ReturnsSelf: true})
	require.NoError(t, reg.RegisterIface(cloneable))

	dogT := in.Named("Dog")
	require.NoError(t, reg.Register(dogT, "Cloneable", Impl{
		"Clone": func(recv any, _ ...any) any { return recv },
	}))

	// Static constraint checks see the implementation...
	assert.True(t, reg.Implements(dogT, "Cloneable"))

	// ...but the dynamic path still rejects it.
	_, err := reg.Build(dogT, "Cloneable")
	var safetyErr *mono.ObjectSafetyError
	require.ErrorAs(t, err, &safetyErr)
	assert.Empty(t, reg.Tables(), "failed build must not leave a partial table")
}

func TestRegister_Validation(t *testing.T) {
	t.Parallel()
	in := mono.NewInterner()
	reg := NewRegistry(in)
	require.NoError(t, reg.RegisterIface(speakable()))
	dogT := in.Named("Dog")

	t.Run("unknown interface", func(t *testing.T) {
		assert.Error(t, reg.Register(dogT, "Nope", dogImpl()))
	})
	t.Run("missing method without default", func(t *testing.T) {
		assert.Error(t, reg.Register(dogT, "Speakable", Impl{
			"Speak": func(recv any, _ ...any) any { return "woof" },
		}))
	})
	t.Run("unknown method name", func(t *testing.T) {
		impl := dogImpl()
		impl["Fly"] = func(recv any, _ ...any) any { return nil }
		assert.Error(t, reg.Register(dogT, "Speakable", impl))
	})
	t.Run("non-concrete type", func(t *testing.T) {
		assert.Error(t, reg.Register(in.Param("T"), "Speakable", dogImpl()))
	})
	t.Run("duplicate registration", func(t *testing.T) {
		require.NoError(t, reg.Register(dogT, "Speakable", dogImpl()))
		assert.Error(t, reg.Register(dogT, "Speakable", dogImpl()))
	})
}

func TestRegister_DefaultMethodSatisfiesCompleteness(t *testing.T) {
	t.Parallel()
	in := mono.NewInterner()
	reg := NewRegistry(in)

	greeter := mono.NewIface("Greeter",
		mono.Method{Name: "Greet", Return: "string"},
		mono.Method{Name: "Name", Return: "string"},
	).WithDefault("Greet", func(recv any, _ ...any) any { return "hello" })
	require.NoError(t, reg.RegisterIface(greeter))

	dogT := in.Named("Dog")
	require.NoError(t, reg.RegisterDynamic(dogT, "Greeter", Impl{
		"Name": func(recv any, _ ...any) any { return recv.(dog).name },
	}))

	table, err := reg.Build(dogT, "Greeter")
	require.NoError(t, err)
	assert.Equal(t, "hello", table.Call(0, dog{name: "rex"}))
	assert.Equal(t, "rex", table.Call(1, dog{name: "rex"}))
}

func TestRegister_ImplementationShadowsDefault(t *testing.T) {
	t.Parallel()
	in := mono.NewInterner()
	reg := NewRegistry(in)

	greeter := mono.NewIface("Greeter",
		mono.Method{Name: "Greet", Return: "string"},
	).WithDefault("Greet", func(recv any, _ ...any) any { return "hello" })
	require.NoError(t, reg.RegisterIface(greeter))

	robotT := in.Named("Robot")
	require.NoError(t, reg.RegisterDynamic(robotT, "Greeter", Impl{
		"Greet": func(recv any, _ ...any) any { return "BEEP" },
	}))

	table, err := reg.Build(robotT, "Greeter")
	require.NoError(t, err)
	assert.Equal(t, "BEEP", table.Call(0, nil))
}

func TestBuild_SlotOrderAndCaching(t *testing.T) {
	t.Parallel()
	in := mono.NewInterner()
	reg := NewRegistry(in)
	require.NoError(t, reg.RegisterIface(speakable()))

	dogT := in.Named("Dog")
	require.NoError(t, reg.RegisterDynamic(dogT, "Speakable", dogImpl()))

	table, err := reg.Build(dogT, "Speakable")
	require.NoError(t, err)
	require.Equal(t, 2, table.Len())
	assert.Equal(t, "Speak", table.SlotName(0))
	assert.Equal(t, "Name", table.SlotName(1))

	slot, ok := table.SlotIndex("Name")
	require.True(t, ok)
	assert.Equal(t, 1, slot)

	again, err := reg.Build(dogT, "Speakable")
	require.NoError(t, err)
	assert.Same(t, table, again, "tables are cached per (type, interface)")
	assert.True(t, table.Equal(again))
}

func TestBuild_RequiresImplementation(t *testing.T) {
	t.Parallel()
	in := mono.NewInterner()
	reg := NewRegistry(in)
	require.NoError(t, reg.RegisterIface(speakable()))

	_, err := reg.Build(in.Named("Cat"), "Speakable")
	assert.Error(t, err)
	assert.False(t, errors.As(err, new(*mono.ObjectSafetyError)))
}

func TestErase_HeterogeneousCollection(t *testing.T) {
	t.Parallel()
	in := mono.NewInterner()
	reg := NewRegistry(in)
	require.NoError(t, reg.RegisterIface(speakable()))

	dogT := in.Named("Dog")
	robotT := in.Named("Robot")
	require.NoError(t, reg.RegisterDynamic(dogT, "Speakable", dogImpl()))
	require.NoError(t, reg.RegisterDynamic(robotT, "Speakable", Impl{
		"Speak": func(recv any, _ ...any) any { return "beep" },
		"Name":  func(recv any, _ ...any) any { return recv.(string) },
	}))

	rex, err := reg.Erase(dogT, "Speakable", dog{name: "rex"})
	require.NoError(t, err)
	r2, err := reg.Erase(robotT, "Speakable", "r2")
	require.NoError(t, err)

	// One homogeneous collection of (data handle, table) pairs.
	staff := []Object{rex, r2}
	var voices []string
	for _, member := range staff {
		voices = append(voices, member.Call(0).(string))
	}
	assert.Equal(t, []string{"woof", "beep"}, voices)

	name, ok := r2.CallNamed("Name")
	require.True(t, ok)
	assert.Equal(t, "r2", name)

	_, ok = rex.CallNamed("Fly")
	assert.False(t, ok)
}

func TestTable_EqualAcrossTypes(t *testing.T) {
	t.Parallel()
	in := mono.NewInterner()
	reg := NewRegistry(in)
	require.NoError(t, reg.RegisterIface(speakable()))

	dogT := in.Named("Dog")
	catT := in.Named("Cat")
	require.NoError(t, reg.RegisterDynamic(dogT, "Speakable", dogImpl()))
	require.NoError(t, reg.RegisterDynamic(catT, "Speakable", Impl{
		"Speak": func(recv any, _ ...any) any { return "meow" },
		"Name":  func(recv any, _ ...any) any { return "cat" },
	}))

	dogTable, err := reg.Build(dogT, "Speakable")
	require.NoError(t, err)
	catTable, err := reg.Build(catT, "Speakable")
	require.NoError(t, err)

	assert.False(t, dogTable.Equal(catTable), "different types have structurally different tables")
	assert.True(t, dogTable.Equal(dogTable))
	assert.Len(t, reg.Tables(), 2)
}

func TestImplements_CanonicalizesAliases(t *testing.T) {
	t.Parallel()
	in := mono.NewInterner()
	reg := NewRegistry(in)
	require.NoError(t, reg.RegisterIface(speakable()))

	dogT := in.Named("Dog")
	hound := in.Alias("Hound", dogT)
	require.NoError(t, reg.Register(dogT, "Speakable", dogImpl()))

	assert.True(t, reg.Implements(hound, "Speakable"), "alias spelling resolves to the underlying type")
}
