package simos

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessTable_CreateAssignsSequentialPIDs(t *testing.T) {
	tbl := newProcessTable()
	p1 := tbl.create(NoProcess)
	p2 := tbl.create(NoProcess)
	p3 := tbl.create(p1.pid)

	assert.Equal(t, PID(1), p1.pid)
	assert.Equal(t, PID(2), p2.pid)
	assert.Equal(t, PID(3), p3.pid)
	assert.Equal(t, StateNew, p3.state)
	assert.Equal(t, p1.pid, p3.parent)
}

func TestProcessTable_Get_UnknownOrZeroReturnsNil(t *testing.T) {
	tbl := newProcessTable()
	tbl.create(NoProcess)

	assert.Nil(t, tbl.get(NoProcess))
	assert.Nil(t, tbl.get(99))
	require.NotNil(t, tbl.get(1))
}

func TestProcess_Role_Derivation(t *testing.T) {
	tbl := newProcessTable()
	parent := tbl.create(NoProcess)
	child := tbl.create(parent.pid)
	parent.children = append(parent.children, child.pid)

	assert.Equal(t, Parent, parent.role())
	assert.Equal(t, Child, child.role())

	child.state = Zombie
	assert.Equal(t, RoleZombie, child.role())

	lonely := tbl.create(NoProcess)
	assert.Equal(t, Regular, lonely.role())
}

func TestProcessTable_Descendants_PostOrder(t *testing.T) {
	tbl := newProcessTable()
	root := tbl.create(NoProcess)
	a := tbl.create(root.pid)
	b := tbl.create(root.pid)
	root.children = []PID{a.pid, b.pid}
	aa := tbl.create(a.pid)
	a.children = []PID{aa.pid}

	got := tbl.descendants(root.pid)
	// post-order: aa before a, a and aa both before b's position doesn't
	// matter relative to b, but every node appears after all of its own
	// children.
	index := map[PID]int{}
	for i, p := range got {
		index[p] = i
	}
	assert.Less(t, index[aa.pid], index[a.pid])
	require.Contains(t, index, b.pid)
}

func TestProcessTable_RemoveChild(t *testing.T) {
	tbl := newProcessTable()
	parent := tbl.create(NoProcess)
	c1 := tbl.create(parent.pid)
	c2 := tbl.create(parent.pid)
	parent.children = []PID{c1.pid, c2.pid}

	tbl.removeChild(parent.pid, c1.pid)
	assert.Equal(t, []PID{c2.pid}, parent.children)

	// removing an absent child, or from an absent parent, is a no-op
	tbl.removeChild(parent.pid, c1.pid)
	assert.Equal(t, []PID{c2.pid}, parent.children)
	tbl.removeChild(999, c2.pid)
}

func TestProcess_View_CopiesChildren(t *testing.T) {
	tbl := newProcessTable()
	p := tbl.create(NoProcess)
	c := tbl.create(p.pid)
	p.children = []PID{c.pid}

	info := p.view()
	info.Children[0] = 999
	assert.Equal(t, []PID{c.pid}, p.children, "view must not alias the live slice")
}
