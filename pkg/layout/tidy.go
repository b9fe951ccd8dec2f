package layout

// tnode carries the per-node state of the tidy tree algorithm.
type tnode struct {
	box      *Box
	parent   *tnode
	children []*tnode
	index    int // position among siblings

	ancestor *tnode // a
	defAnc   *tnode // A, default ancestor for the children
	thread   *tnode // t
	prelim   float64
	mod      float64
	change   float64
	shift    float64
}

// tidy assigns X (depth) and Y (breadth) to every box under root.
func tidy(root *Box, o Options) {
	t := wrap(root, 0)
	sentinel := &tnode{children: []*tnode{t}}
	t.parent = sentinel

	sep := func(a, b *tnode) float64 {
		if a.box.Parent == b.box.Parent {
			return o.SiblingSeparation
		}
		return o.CousinSeparation
	}

	firstWalk(t, sep)
	sentinel.mod = -t.prelim
	secondWalk(t)

	scale(root, o)
}

func wrap(b *Box, i int) *tnode {
	t := &tnode{box: b, index: i}
	t.ancestor = t
	for j, c := range b.Children {
		ct := wrap(c, j)
		ct.parent = t
		t.children = append(t.children, ct)
	}
	return t
}

// firstWalk computes preliminary positions bottom-up, left to right.
func firstWalk(v *tnode, sep func(a, b *tnode) float64) {
	for _, c := range v.children {
		firstWalk(c, sep)
	}

	siblings := v.parent.children
	var w *tnode
	if v.index > 0 {
		w = siblings[v.index-1]
	}

	if len(v.children) > 0 {
		executeShifts(v)
		mid := (v.children[0].prelim + v.children[len(v.children)-1].prelim) / 2
		if w != nil {
			v.prelim = w.prelim + sep(v, w)
			v.mod = v.prelim - mid
		} else {
			v.prelim = mid
		}
	} else if w != nil {
		v.prelim = w.prelim + sep(v, w)
	}

	anc := v.parent.defAnc
	if anc == nil {
		anc = siblings[0]
	}
	v.parent.defAnc = apportion(v, w, anc, sep)
}

// secondWalk resolves final breadth positions top-down.
func secondWalk(v *tnode) {
	v.box.Y = v.prelim + v.parent.mod
	v.mod += v.parent.mod
	for _, c := range v.children {
		secondWalk(c)
	}
}

func apportion(v, w, ancestor *tnode, sep func(a, b *tnode) float64) *tnode {
	if w == nil {
		return ancestor
	}

	vip, vop := v, v
	vim := w
	vom := v.parent.children[0]
	sip, sop := vip.mod, vop.mod
	sim, som := vim.mod, vom.mod

	for {
		vim = nextRight(vim)
		vip = nextLeft(vip)
		if vim == nil || vip == nil {
			break
		}
		vom = nextLeft(vom)
		vop = nextRight(vop)
		vop.ancestor = v
		shift := vim.prelim + sim - vip.prelim - sip + sep(vim, vip)
		if shift > 0 {
			moveSubtree(nextAncestor(vim, v, ancestor), v, shift)
			sip += shift
			sop += shift
		}
		sim += vim.mod
		sip += vip.mod
		som += vom.mod
		sop += vop.mod
	}

	if vim != nil && nextRight(vop) == nil {
		vop.thread = vim
		vop.mod += sim - sop
	}
	if vip != nil && nextLeft(vom) == nil {
		vom.thread = vip
		vom.mod += sip - som
		ancestor = v
	}
	return ancestor
}

func nextLeft(v *tnode) *tnode {
	if len(v.children) > 0 {
		return v.children[0]
	}
	return v.thread
}

func nextRight(v *tnode) *tnode {
	if len(v.children) > 0 {
		return v.children[len(v.children)-1]
	}
	return v.thread
}

func moveSubtree(wm, wp *tnode, shift float64) {
	change := shift / float64(wp.index-wm.index)
	wp.change -= change
	wp.shift += shift
	wm.change += change
	wp.prelim += shift
	wp.mod += shift
}

func executeShifts(v *tnode) {
	var shift, change float64
	for i := len(v.children) - 1; i >= 0; i-- {
		w := v.children[i]
		w.prelim += shift
		w.mod += shift
		change += w.change
		shift += w.shift + change
	}
}

func nextAncestor(vim, v, ancestor *tnode) *tnode {
	if vim.ancestor.parent == v.parent {
		return vim.ancestor
	}
	return ancestor
}

// scale converts unit positions into canvas coordinates.
func scale(b *Box, o Options) {
	b.Y *= o.NodeBreadth
	b.X = float64(b.Depth) * o.NodeDepth
	for _, c := range b.Children {
		scale(c, o)
	}
}
