package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/and161185/shopfront/internal/checkout"
	"github.com/and161185/shopfront/internal/errs"
	"github.com/and161185/shopfront/internal/format"
	"github.com/and161185/shopfront/internal/model"
	"github.com/and161185/shopfront/internal/session"
)

var commands = map[string]command{
	"login":      {help: "-e <email> -p <password>", run: cmdLogin},
	"register":   {help: "-e <email> -p <password> [-first -last -phone]", view: at("/register"), run: cmdRegister},
	"logout":     {help: "forget the saved session", run: cmdLogout},
	"whoami":     {help: "show the saved session", run: cmdWhoami},
	"profile":    {help: "[-first -last -phone] show or update the profile", view: at("/profile"), run: cmdProfile},
	"password":   {help: "-old <pwd> -new <pwd>", view: at("/profile"), run: cmdPassword},
	"products":   {help: "[-q text] [-category id] [-featured] [-page n] [-size n]", view: at("/products"), run: cmdProducts},
	"product":    {help: "-id <product>", view: idView("/products/"), run: cmdProduct},
	"categories": {help: "list categories", view: at("/products"), run: cmdCategories},

	"cart":       {help: "show the cart", view: at("/cart"), run: cmdCart},
	"cart-add":   {help: "-id <product> [-qty n]", view: at("/cart"), run: cmdCartAdd},
	"cart-set":   {help: "-id <product> -qty n", view: at("/cart"), run: cmdCartSet},
	"cart-rm":    {help: "-id <product>", view: at("/cart"), run: cmdCartRemove},
	"cart-clear": {help: "empty the cart", view: at("/cart"), run: cmdCartClear},
	"coupon":     {help: "-code <code> | -rm", view: at("/cart"), run: cmdCoupon},

	"wishlist":   {help: "show the wishlist", view: at("/wishlist"), run: cmdWishlist},
	"wish-add":   {help: "-id <product>", view: at("/wishlist"), run: cmdWishAdd},
	"wish-rm":    {help: "-id <product>", view: at("/wishlist"), run: cmdWishRemove},
	"wish-move":  {help: "-id <product> move into the cart", view: at("/wishlist"), run: cmdWishMove},
	"wish-clear": {help: "empty the wishlist", view: at("/wishlist"), run: cmdWishClear},

	"checkout": {help: "-name -phone -street -city -state -zip [-country] [-pay COD|CARD|UPI] [-notes]", view: at("/checkout"), run: cmdCheckout},
	"orders":   {help: "[-page n] list orders", view: at("/orders"), run: cmdOrders},
	"order":    {help: "-id <order>", view: idView("/orders/"), run: cmdOrder},
	"cancel":   {help: "-id <order>", view: idView("/orders/"), run: cmdCancel},
	"reorder":  {help: "-id <order>", view: idView("/orders/"), run: cmdReorder},
	"invoice":  {help: "-id <order> -out <file>", view: idView("/orders/"), run: cmdInvoice},

	"admin-stats":          {help: "dashboard numbers", view: at("/admin"), run: cmdAdminStats},
	"admin-orders":         {help: "[-status S] [-page n]", view: at("/admin/orders"), run: cmdAdminOrders},
	"admin-order-status":   {help: "-id <order> -status S", view: idView("/admin/orders/"), run: cmdAdminOrderStatus},
	"admin-tracking":       {help: "-id <order> -number <tracking>", view: idView("/admin/orders/"), run: cmdAdminTracking},
	"admin-users":          {help: "[-page n]", view: at("/admin/users"), run: cmdAdminUsers},
	"admin-user-role":      {help: "-id <user> -role USER|ADMIN", view: at("/admin/users"), run: cmdAdminUserRole},
	"admin-products":       {help: "[-page n]", view: at("/admin/products"), run: cmdAdminProducts},
	"admin-product-toggle": {help: "-id <product> -what featured|active", view: at("/admin/products"), run: cmdAdminProductToggle},
	"admin-export":         {help: "-out <file> [-status S] export orders", view: at("/admin/orders"), run: cmdAdminExport},
}

// ---- flag helpers ----

func newFlags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%s: %w", fs.Name(), err)
	}
	return nil
}

// need reports the first empty required flag as a validation error.
func need(pairs ...string) error {
	for i := 0; i+1 < len(pairs); i += 2 {
		if strings.TrimSpace(pairs[i+1]) == "" {
			return fmt.Errorf("need -%s: %w", pairs[i], errs.ErrValidation)
		}
	}
	return nil
}

// flagArg finds the value of -name in args without parsing the rest.
func flagArg(args []string, name string) string {
	for i, a := range args {
		a = strings.TrimPrefix(strings.TrimPrefix(a, "-"), "-")
		if v, ok := strings.CutPrefix(a, name+"="); ok {
			return v
		}
		if a == name && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

// idView maps a command with -id onto prefix+id.
func idView(prefix string) func([]string) string {
	return func(args []string) string {
		id := flagArg(args, "id")
		if id == "" {
			id = "_"
		}
		return prefix + id
	}
}

// ---- session ----

func cmdLogin(ctx context.Context, r *runner, args []string) error {
	fs := newFlags("login")
	email := fs.String("e", "", "email")
	pwd := fs.String("p", "", "password")
	if err := parse(fs, args); err != nil {
		return err
	}
	if err := need("e", *email, "p", *pwd); err != nil {
		return err
	}
	res := r.app.Auth.Login(ctx, model.Credentials{Email: *email, Password: *pwd})
	if !res.Success {
		return errors.New(res.Error)
	}
	r.printf("logged in as %s\n", r.app.Auth.State().User.Email)
	return nil
}

func cmdRegister(ctx context.Context, r *runner, args []string) error {
	fs := newFlags("register")
	var reg model.Registration
	fs.StringVar(&reg.Email, "e", "", "email")
	fs.StringVar(&reg.Password, "p", "", "password")
	fs.StringVar(&reg.FirstName, "first", "", "first name")
	fs.StringVar(&reg.LastName, "last", "", "last name")
	fs.StringVar(&reg.Phone, "phone", "", "phone")
	if err := parse(fs, args); err != nil {
		return err
	}
	if err := need("e", reg.Email, "p", reg.Password); err != nil {
		return err
	}
	res := r.app.Auth.Register(ctx, reg)
	if !res.Success {
		return errors.New(res.Error)
	}
	r.printf("registered %s\n", reg.Email)
	return nil
}

func cmdLogout(_ context.Context, r *runner, _ []string) error {
	r.app.Logout()
	r.println("ok")
	return nil
}

func cmdWhoami(_ context.Context, r *runner, _ []string) error {
	st := r.app.Auth.State()
	if !st.IsAuthenticated {
		r.println("anonymous")
		return nil
	}
	r.printf("%s <%s>\n", st.User.FullName(), st.User.Email)
	roles := make([]string, 0, len(st.User.Roles))
	for _, role := range st.User.Roles {
		roles = append(roles, string(role))
	}
	r.printf("roles: %s\n", strings.Join(roles, ","))
	if exp, ok := session.Expiry(st.Token); ok {
		r.printf("token expires: %s\n", exp.UTC().Format(time.RFC3339))
	}
	return nil
}

func cmdProfile(ctx context.Context, r *runner, args []string) error {
	fs := newFlags("profile")
	first := fs.String("first", "", "first name")
	last := fs.String("last", "", "last name")
	phone := fs.String("phone", "", "phone")
	if err := parse(fs, args); err != nil {
		return err
	}
	var upd model.ProfileUpdate
	changed := false
	fs.Visit(func(f *flag.Flag) {
		changed = true
		switch f.Name {
		case "first":
			upd.FirstName = first
		case "last":
			upd.LastName = last
		case "phone":
			upd.Phone = phone
		}
	})
	if changed {
		if res := r.app.Auth.UpdateProfile(ctx, upd); !res.Success {
			if res.Error == errs.ErrNotAuthenticated.Error() {
				return errs.ErrNotAuthenticated
			}
			return errors.New(res.Error)
		}
	} else {
		r.app.Auth.FetchProfile(ctx)
	}
	r.printJSON(r.app.Auth.State().User)
	return nil
}

func cmdPassword(ctx context.Context, r *runner, args []string) error {
	fs := newFlags("password")
	var pc model.PasswordChange
	fs.StringVar(&pc.CurrentPassword, "old", "", "current password")
	fs.StringVar(&pc.NewPassword, "new", "", "new password")
	if err := parse(fs, args); err != nil {
		return err
	}
	if err := need("old", pc.CurrentPassword, "new", pc.NewPassword); err != nil {
		return err
	}
	if err := r.app.Client.Users.ChangePassword(ctx, pc); err != nil {
		return err
	}
	r.println("password changed")
	return nil
}

// ---- catalog ----

func cmdProducts(ctx context.Context, r *runner, args []string) error {
	fs := newFlags("products")
	q := fs.String("q", "", "search text")
	cat := fs.String("category", "", "category id")
	featured := fs.Bool("featured", false, "featured only")
	var pq model.PageQuery
	fs.IntVar(&pq.Page, "page", 0, "page")
	fs.IntVar(&pq.Size, "size", 12, "page size")
	if err := parse(fs, args); err != nil {
		return err
	}
	var (
		page model.Page[model.Product]
		err  error
	)
	switch {
	case *q != "":
		page, err = r.app.Client.Products.Search(ctx, *q, pq)
	case *featured:
		page, err = r.app.Client.Products.Featured(ctx, pq)
	case *cat != "":
		page, err = r.app.Client.Products.ByCategory(ctx, *cat, pq)
	default:
		page, err = r.app.Client.Products.List(ctx, model.ProductFilter{PageQuery: pq})
	}
	if err != nil {
		return err
	}
	for _, p := range page.Content {
		r.printf("%s\t%s\t%s\n", p.ID, p.Name, r.fmt.Money(p.EffectivePrice()))
	}
	r.printf("page %d of %d\n", page.Number+1, max(page.TotalPages, 1))
	return nil
}

func cmdProduct(ctx context.Context, r *runner, args []string) error {
	fs := newFlags("product")
	id := fs.String("id", "", "product id")
	if err := parse(fs, args); err != nil {
		return err
	}
	if err := need("id", *id); err != nil {
		return err
	}
	p, err := r.app.Client.Products.Get(ctx, *id)
	if err != nil {
		return err
	}
	r.printJSON(p)
	return nil
}

func cmdCategories(ctx context.Context, r *runner, _ []string) error {
	cats, err := r.app.Client.Categories.List(ctx)
	if err != nil {
		return err
	}
	for _, c := range cats {
		r.printf("%s\t%s\n", c.ID, c.Name)
	}
	return nil
}

// ---- cart ----

func renderCart(r *runner, c model.Cart) {
	if c.Empty() {
		r.println("cart is empty")
		return
	}
	for _, it := range c.Items {
		r.println(r.fmt.Line(it))
	}
	if c.CouponCode != "" {
		r.printf("coupon %s: -%s\n", c.CouponCode, r.fmt.Money(c.Discount))
	}
	t := checkout.Estimate(c)
	r.printf("subtotal: %s\n", r.fmt.Money(t.Subtotal))
	r.printf("shipping: %s\n", r.fmt.Shipping(t.Shipping))
	r.printf("total: %s\n", r.fmt.Money(t.Total))
}

func cmdCart(ctx context.Context, r *runner, _ []string) error {
	if err := r.app.Cart.FetchCart(ctx); err != nil {
		return err
	}
	renderCart(r, r.app.Cart.Cart())
	return nil
}

func itemFlags(name string, args []string, defQty int) (string, int, error) {
	fs := newFlags(name)
	id := fs.String("id", "", "product id")
	qty := fs.Int("qty", defQty, "quantity")
	if err := parse(fs, args); err != nil {
		return "", 0, err
	}
	return *id, *qty, need("id", *id)
}

func cmdCartAdd(ctx context.Context, r *runner, args []string) error {
	id, qty, err := itemFlags("cart-add", args, 1)
	if err != nil {
		return err
	}
	if err := r.app.Cart.AddToCart(ctx, id, qty); err != nil {
		return err
	}
	renderCart(r, r.app.Cart.Cart())
	return nil
}

func cmdCartSet(ctx context.Context, r *runner, args []string) error {
	id, qty, err := itemFlags("cart-set", args, 0)
	if err != nil {
		return err
	}
	if err := r.app.Cart.UpdateItemQuantity(ctx, id, qty); err != nil {
		return err
	}
	renderCart(r, r.app.Cart.Cart())
	return nil
}

func cmdCartRemove(ctx context.Context, r *runner, args []string) error {
	id, _, err := itemFlags("cart-rm", args, 0)
	if err != nil {
		return err
	}
	if err := r.app.Cart.RemoveFromCart(ctx, id); err != nil {
		return err
	}
	renderCart(r, r.app.Cart.Cart())
	return nil
}

func cmdCartClear(ctx context.Context, r *runner, _ []string) error {
	if err := r.app.Cart.ClearCart(ctx); err != nil {
		return err
	}
	renderCart(r, r.app.Cart.Cart())
	return nil
}

func cmdCoupon(ctx context.Context, r *runner, args []string) error {
	fs := newFlags("coupon")
	code := fs.String("code", "", "coupon code")
	rm := fs.Bool("rm", false, "remove the applied coupon")
	if err := parse(fs, args); err != nil {
		return err
	}
	var err error
	if *rm {
		err = r.app.Cart.RemoveCoupon(ctx)
	} else {
		if err := need("code", *code); err != nil {
			return err
		}
		err = r.app.Cart.ApplyCoupon(ctx, strings.ToUpper(*code))
	}
	if err != nil {
		return err
	}
	renderCart(r, r.app.Cart.Cart())
	return nil
}

// ---- wishlist ----

func renderWishlist(r *runner, items []model.WishlistItem) {
	if len(items) == 0 {
		r.println("wishlist is empty")
		return
	}
	for _, it := range items {
		stock := "in stock"
		if !it.InStock {
			stock = "out of stock"
		}
		r.printf("%s\t%s\t%s\t%s\n", it.ProductID, it.Name, r.fmt.Money(it.Price), stock)
	}
}

func cmdWishlist(ctx context.Context, r *runner, _ []string) error {
	if err := r.app.Wishlist.FetchWishlist(ctx); err != nil {
		return err
	}
	renderWishlist(r, r.app.Wishlist.Items())
	return nil
}

func wishID(name string, args []string) (string, error) {
	id, _, err := itemFlags(name, args, 0)
	return id, err
}

func cmdWishAdd(ctx context.Context, r *runner, args []string) error {
	id, err := wishID("wish-add", args)
	if err != nil {
		return err
	}
	p, err := r.app.Client.Products.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := r.app.Wishlist.AddToWishlist(ctx, p); err != nil {
		return err
	}
	renderWishlist(r, r.app.Wishlist.Items())
	return nil
}

func cmdWishRemove(ctx context.Context, r *runner, args []string) error {
	id, err := wishID("wish-rm", args)
	if err != nil {
		return err
	}
	if err := r.app.Wishlist.RemoveFromWishlist(ctx, id); err != nil {
		return err
	}
	renderWishlist(r, r.app.Wishlist.Items())
	return nil
}

func cmdWishMove(ctx context.Context, r *runner, args []string) error {
	id, err := wishID("wish-move", args)
	if err != nil {
		return err
	}
	if err := r.app.Wishlist.MoveToCart(ctx, id); err != nil {
		return err
	}
	renderWishlist(r, r.app.Wishlist.Items())
	renderCart(r, r.app.Cart.Cart())
	return nil
}

func cmdWishClear(ctx context.Context, r *runner, _ []string) error {
	if err := r.app.Wishlist.ClearWishlist(ctx); err != nil {
		return err
	}
	renderWishlist(r, r.app.Wishlist.Items())
	return nil
}

// ---- orders ----

func cmdCheckout(ctx context.Context, r *runner, args []string) error {
	fs := newFlags("checkout")
	var req model.OrderRequest
	a := &req.ShippingAddress
	fs.StringVar(&a.FullName, "name", "", "full name")
	fs.StringVar(&a.Phone, "phone", "", "phone")
	fs.StringVar(&a.Street, "street", "", "street")
	fs.StringVar(&a.City, "city", "", "city")
	fs.StringVar(&a.State, "state", "", "state")
	fs.StringVar(&a.ZipCode, "zip", "", "zip code")
	fs.StringVar(&a.Country, "country", checkout.DefaultCountry, "country")
	pay := fs.String("pay", string(model.PaymentCOD), "COD, CARD or UPI")
	fs.StringVar(&req.Notes, "notes", "", "delivery notes")
	if err := parse(fs, args); err != nil {
		return err
	}
	req.PaymentMethod = model.PaymentMethod(strings.ToUpper(*pay))

	o, err := r.app.Checkout.PlaceOrder(ctx, req)
	if errors.Is(err, errs.ErrEmptyCart) {
		r.app.Visit("/cart")
		return err
	}
	if errs.Classify(err) == errs.KindServer {
		return errors.New(errs.Message(err, checkout.FailureMessage))
	}
	if err != nil {
		return err
	}
	r.app.Visit(checkout.OrderPath(o))
	r.printf("Order placed successfully! %s (%s)\n", o.OrderNumber, o.ID)
	r.printf("payment: %s\n", format.Payment(o.PaymentMethod))
	return nil
}

func pageFlags(name string) (*flag.FlagSet, *model.PageQuery) {
	fs := newFlags(name)
	var pq model.PageQuery
	fs.IntVar(&pq.Page, "page", 0, "page")
	fs.IntVar(&pq.Size, "size", 10, "page size")
	return fs, &pq
}

func renderOrders(r *runner, page model.Page[model.Order]) {
	if len(page.Content) == 0 {
		r.println("no orders")
		return
	}
	for _, o := range page.Content {
		r.printf("%s\t%s\t%s\t%s\n", o.ID, o.OrderNumber, format.Status(o.Status), r.fmt.Money(o.TotalAmount))
	}
	r.printf("page %d of %d\n", page.Number+1, max(page.TotalPages, 1))
}

func cmdOrders(ctx context.Context, r *runner, args []string) error {
	fs, pq := pageFlags("orders")
	if err := parse(fs, args); err != nil {
		return err
	}
	page, err := r.app.Client.Orders.List(ctx, *pq)
	if err != nil {
		return err
	}
	renderOrders(r, page)
	return nil
}

func orderID(name string, args []string, extra func(*flag.FlagSet)) (string, error) {
	fs := newFlags(name)
	id := fs.String("id", "", "order id")
	if extra != nil {
		extra(fs)
	}
	if err := parse(fs, args); err != nil {
		return "", err
	}
	return *id, need("id", *id)
}

func cmdOrder(ctx context.Context, r *runner, args []string) error {
	id, err := orderID("order", args, nil)
	if err != nil {
		return err
	}
	o, err := r.app.Client.Orders.Get(ctx, id)
	if err != nil {
		return err
	}
	r.printJSON(o)
	return nil
}

func cmdCancel(ctx context.Context, r *runner, args []string) error {
	id, err := orderID("cancel", args, nil)
	if err != nil {
		return err
	}
	o, err := r.app.Client.Orders.Cancel(ctx, id)
	if err != nil {
		return err
	}
	r.printf("%s %s\n", o.OrderNumber, format.Status(o.Status))
	return nil
}

func cmdReorder(ctx context.Context, r *runner, args []string) error {
	id, err := orderID("reorder", args, nil)
	if err != nil {
		return err
	}
	if err := r.app.Client.Orders.Reorder(ctx, id); err != nil {
		return err
	}
	return cmdCart(ctx, r, nil)
}

func (r *runner) writeFile(path string, b []byte) error {
	if path == "-" {
		_, err := r.out.Write(b)
		return err
	}
	return os.WriteFile(path, b, 0o600)
}

func cmdInvoice(ctx context.Context, r *runner, args []string) error {
	var out string
	id, err := orderID("invoice", args, func(fs *flag.FlagSet) { fs.StringVar(&out, "out", "", "output file") })
	if err != nil {
		return err
	}
	if err := need("out", out); err != nil {
		return err
	}
	b, err := r.app.Client.Orders.Invoice(ctx, id)
	if err != nil {
		return err
	}
	if err := r.writeFile(out, b); err != nil {
		return err
	}
	if out != "-" {
		r.printf("wrote %d bytes to %s\n", len(b), out)
	}
	return nil
}
