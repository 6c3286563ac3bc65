package route

// A mount is a child Router and its mirror in the parent's tree.
type mount struct {
	router *Router
	node   *Node
}

// mount mirrors child's tree under child's root path in r's tree,
// replacing any earlier mirror of child in place so registration order holds,
// then refreshes r's own mirror in its ancestors.
func (r *Router) mount(child *Router) {
	if r.Disposed() {
		return
	}

	mirror := child.root.mirror(RootSelector{Prefix: child.rootPath})

	r.mu.Lock()
	var old *Node
	found := false
	for _, m := range r.mounts {
		if m.router == child {
			old, m.node = m.node, mirror
			found = true
			break
		}
	}
	if !found {
		r.mounts = append(r.mounts, &mount{router: child, node: mirror})
	}
	r.mu.Unlock()

	r.root.replaceChild(old, mirror)
	r.remount()
}

// unmount removes child's mirror from r's tree.
func (r *Router) unmount(child *Router) {
	r.mu.Lock()
	var node *Node
	for i, m := range r.mounts {
		if m.router == child {
			node = m.node
			r.mounts = append(r.mounts[:i:i], r.mounts[i+1:]...)
			break
		}
	}
	r.mu.Unlock()

	if node != nil {
		r.root.removeChild(node)
	}
	r.remount()
}

// remount refreshes r's mirror in its parent, which refreshes its own in turn.
func (r *Router) remount() {
	if r.parent == nil || r.Disposed() {
		return
	}
	r.parent.mount(r)
}
