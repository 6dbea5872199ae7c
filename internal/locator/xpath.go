package locator

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/dom"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
)

// xpathFunction evaluates an XPath expression against this and returns the
// matching nodes in document order, at most one when first is set.
const xpathFunction = `function() {
	const doc = this.nodeType === Node.DOCUMENT_NODE ? this : this.ownerDocument;
	const result = doc.evaluate(%s, this, null, XPathResult.ORDERED_NODE_SNAPSHOT_TYPE, null);
	const n = %t ? Math.min(result.snapshotLength, 1) : result.snapshotLength;
	const nodes = [];
	for (let i = 0; i < n; i++) {
		nodes.push(result.snapshotItem(i));
	}
	return nodes;
}`

// byXPath selects nodes by evaluating expr with the query root as context
// node. Unlike chromedp.BySearch it honors chromedp.FromNode, so lookups stay
// inside the current document or frame.
func byXPath(expr string, first bool) chromedp.QueryOption {
	return chromedp.ByFunc(func(ctx context.Context, n *cdp.Node) ([]cdp.NodeID, error) {
		return evaluateXPath(ctx, n, expr, first)
	})
}

func evaluateXPath(ctx context.Context, root *cdp.Node, expr string, first bool) ([]cdp.NodeID, error) {
	quoted, err := json.Marshal(expr)
	if err != nil {
		return nil, err
	}
	obj, err := dom.ResolveNode().WithNodeID(root.NodeID).Do(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = runtime.ReleaseObject(obj.ObjectID).Do(ctx)
	}()

	list, exp, err := runtime.CallFunctionOn(fmt.Sprintf(xpathFunction, quoted, first)).
		WithObjectID(obj.ObjectID).
		Do(ctx)
	if err != nil {
		return nil, err
	}
	if exp != nil {
		return nil, exp
	}
	if list.ObjectID == "" {
		return []cdp.NodeID{}, nil
	}
	defer func() {
		_ = runtime.ReleaseObject(list.ObjectID).Do(ctx)
	}()

	props, _, _, exp, err := runtime.GetProperties(list.ObjectID).WithOwnProperties(true).Do(ctx)
	if err != nil {
		return nil, err
	}
	if exp != nil {
		return nil, exp
	}

	type indexed struct {
		index int
		id    runtime.RemoteObjectID
	}
	items := make([]indexed, 0, len(props))
	for _, p := range props {
		i, errAtoi := strconv.Atoi(p.Name)
		if errAtoi != nil || p.Value == nil || p.Value.Subtype != runtime.SubtypeNode {
			continue
		}
		items = append(items, indexed{index: i, id: p.Value.ObjectID})
	}
	sort.Slice(items, func(a, b int) bool { return items[a].index < items[b].index })

	ids := make([]cdp.NodeID, 0, len(items))
	for _, item := range items {
		id, errRequest := dom.RequestNode(item.id).Do(ctx)
		_ = runtime.ReleaseObject(item.id).Do(ctx)
		if errRequest != nil {
			return nil, errRequest
		}
		if id != cdp.EmptyNodeID {
			ids = append(ids, id)
		}
	}
	return ids, nil
}
