package main

import (
	"context"
	"flag"
	"fmt"
	"net/url"
	"strings"

	"github.com/and161185/shopfront/internal/errs"
	"github.com/and161185/shopfront/internal/format"
	"github.com/and161185/shopfront/internal/model"
)

func cmdAdminStats(ctx context.Context, r *runner, _ []string) error {
	s, err := r.app.Client.Admin.DashboardStats(ctx)
	if err != nil {
		return err
	}
	r.printf("revenue:     %s\n", r.fmt.Money(s.TotalRevenue))
	r.printf("orders:      %s (%s pending, %s completed)\n",
		r.fmt.Count(s.TotalOrders), r.fmt.Count(s.PendingOrders), r.fmt.Count(s.CompletedOrders))
	r.printf("products:    %s (%s active, %s low stock)\n",
		r.fmt.Count(s.TotalProducts), r.fmt.Count(s.ActiveProducts), r.fmt.Count(s.LowStockProducts))
	r.printf("users:       %s\n", r.fmt.Count(s.TotalUsers))
	return nil
}

func cmdAdminOrders(ctx context.Context, r *runner, args []string) error {
	fs, pq := pageFlags("admin-orders")
	status := fs.String("status", "", "order status")
	if err := parse(fs, args); err != nil {
		return err
	}
	var (
		page model.Page[model.Order]
		err  error
	)
	if *status != "" {
		page, err = r.app.Client.Admin.Orders.ByStatus(ctx, model.OrderStatus(strings.ToUpper(*status)), *pq)
	} else {
		page, err = r.app.Client.Admin.Orders.List(ctx, *pq)
	}
	if err != nil {
		return err
	}
	renderOrders(r, page)
	return nil
}

func cmdAdminOrderStatus(ctx context.Context, r *runner, args []string) error {
	var status string
	id, err := orderID("admin-order-status", args, func(fs *flag.FlagSet) { fs.StringVar(&status, "status", "", "new status") })
	if err != nil {
		return err
	}
	if err := need("status", status); err != nil {
		return err
	}
	o, err := r.app.Client.Admin.Orders.UpdateStatus(ctx, id, model.OrderStatus(strings.ToUpper(status)))
	if err != nil {
		return err
	}
	r.printf("%s %s\n", o.OrderNumber, format.Status(o.Status))
	return nil
}

func cmdAdminTracking(ctx context.Context, r *runner, args []string) error {
	var number string
	id, err := orderID("admin-tracking", args, func(fs *flag.FlagSet) { fs.StringVar(&number, "number", "", "tracking number") })
	if err != nil {
		return err
	}
	if err := need("number", number); err != nil {
		return err
	}
	o, err := r.app.Client.Admin.Orders.UpdateTracking(ctx, id, number)
	if err != nil {
		return err
	}
	r.printf("%s tracking %s\n", o.OrderNumber, o.TrackingNumber)
	return nil
}

func cmdAdminUsers(ctx context.Context, r *runner, args []string) error {
	fs, pq := pageFlags("admin-users")
	if err := parse(fs, args); err != nil {
		return err
	}
	page, err := r.app.Client.Admin.Users.List(ctx, *pq)
	if err != nil {
		return err
	}
	for _, u := range page.Content {
		state := "active"
		if !u.Active {
			state = "inactive"
		}
		r.printf("%s\t%s\t%s\t%s\n", u.ID, u.Email, u.Role, state)
	}
	r.printf("page %d of %d\n", page.Number+1, max(page.TotalPages, 1))
	return nil
}

func cmdAdminUserRole(ctx context.Context, r *runner, args []string) error {
	fs := newFlags("admin-user-role")
	id := fs.String("id", "", "user id")
	role := fs.String("role", "", "USER or ADMIN")
	if err := parse(fs, args); err != nil {
		return err
	}
	if err := need("id", *id, "role", *role); err != nil {
		return err
	}
	rl := model.Role(strings.ToUpper(*role))
	if rl != model.RoleUser && rl != model.RoleAdmin {
		return fmt.Errorf("role %q: %w", *role, errs.ErrValidation)
	}
	u, err := r.app.Client.Admin.Users.UpdateRole(ctx, *id, rl)
	if err != nil {
		return err
	}
	r.printf("%s is now %s\n", u.Email, rl)
	return nil
}

func cmdAdminProducts(ctx context.Context, r *runner, args []string) error {
	fs, pq := pageFlags("admin-products")
	if err := parse(fs, args); err != nil {
		return err
	}
	page, err := r.app.Client.Admin.Products.List(ctx, *pq)
	if err != nil {
		return err
	}
	for _, p := range page.Content {
		r.printf("%s\t%s\t%s\tstock %d\tfeatured=%t active=%t\n",
			p.ID, p.Name, r.fmt.Money(p.Price), p.StockQuantity, p.Featured, p.Active)
	}
	r.printf("page %d of %d\n", page.Number+1, max(page.TotalPages, 1))
	return nil
}

func cmdAdminProductToggle(ctx context.Context, r *runner, args []string) error {
	fs := newFlags("admin-product-toggle")
	id := fs.String("id", "", "product id")
	what := fs.String("what", "", "featured or active")
	if err := parse(fs, args); err != nil {
		return err
	}
	if err := need("id", *id, "what", *what); err != nil {
		return err
	}
	var (
		p   model.Product
		err error
	)
	switch *what {
	case "featured":
		p, err = r.app.Client.Admin.Products.ToggleFeatured(ctx, *id)
	case "active":
		p, err = r.app.Client.Admin.Products.ToggleActive(ctx, *id)
	default:
		return fmt.Errorf("-what %q: %w", *what, errs.ErrValidation)
	}
	if err != nil {
		return err
	}
	r.printf("%s featured=%t active=%t\n", p.Name, p.Featured, p.Active)
	return nil
}

func cmdAdminExport(ctx context.Context, r *runner, args []string) error {
	fs := newFlags("admin-export")
	out := fs.String("out", "", "output file, - for stdout")
	status := fs.String("status", "", "only orders with this status")
	if err := parse(fs, args); err != nil {
		return err
	}
	if err := need("out", *out); err != nil {
		return err
	}
	params := url.Values{}
	if *status != "" {
		params.Set("status", strings.ToUpper(*status))
	}
	b, err := r.app.Client.Admin.ExportOrders(ctx, params)
	if err != nil {
		return err
	}
	if err := r.writeFile(*out, b); err != nil {
		return err
	}
	if *out != "-" {
		r.printf("wrote %d bytes to %s\n", len(b), *out)
	}
	return nil
}
