// This file implements LRU eviction.

package eviction

// lruNode represents ONE key inside the LRU structure. We use a doubly-linked list to track usage order.
type lruNode struct {
	key string

	// prev points to the node used more recently than this one
	prev *lruNode

	// next points to the node used less recently than this one
	next *lruNode
}

/*
LRU evicts the least recently used key.

Every hit or insert moves the key to the front, and the store stamps the
entry with a fresh, strictly increasing recency stamp at the same moment.
The tail is therefore always the key with the smallest stamp, and there are
never ties to break.
*/
type LRU struct {
	// nodes maps keys to their list nodes so we can find and move them in O(1).
	nodes map[string]*lruNode

	// head points to the MOST recently used key
	head *lruNode

	// tail points to the LEAST recently used key
	tail *lruNode
}

var _ Policy = (*LRU)(nil)

func NewLRU() *LRU {
	return &LRU{nodes: make(map[string]*lruNode)}
}

// OnGet marks k as most recently used.
func (l *LRU) OnGet(k string) {
	if n, ok := l.nodes[k]; ok {
		l.moveToFront(n)
	}
}

// OnPut tracks a new key at the front, or moves an existing one there.
// A refresh counts as a use.
func (l *LRU) OnPut(k string) {
	if n, ok := l.nodes[k]; ok {
		l.moveToFront(n)
		return
	}
	n := &lruNode{key: k}
	l.nodes[k] = n
	l.addFront(n)
}

// Evict removes and returns the least recently used key.
func (l *LRU) Evict() string {
	if l.tail == nil {
		return ""
	}

	k := l.tail.key
	l.unlink(l.tail)
	delete(l.nodes, k)
	return k
}

// Remove forgets k after an explicit removal.
func (l *LRU) Remove(k string) {
	if n, ok := l.nodes[k]; ok {
		l.unlink(n)
		delete(l.nodes, k)
	}
}

func (l *LRU) Reset() {
	l.nodes = make(map[string]*lruNode)
	l.head, l.tail = nil, nil
}

func (l *LRU) Len() int {
	return len(l.nodes)
}

func (l *LRU) addFront(n *lruNode) {
	n.prev = nil
	n.next = l.head
	if l.head != nil {
		l.head.prev = n
	}
	l.head = n

	if l.tail == nil {
		l.tail = n
	}
}

func (l *LRU) unlink(n *lruNode) {
	if n.prev != nil {
		n.prev.next = n.next
	} else {
		l.head = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else {
		l.tail = n.prev
	}
	n.prev, n.next = nil, nil
}

func (l *LRU) moveToFront(n *lruNode) {
	if l.head == n {
		return
	}
	l.unlink(n)
	l.addFront(n)
}
