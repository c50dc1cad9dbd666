package main

import (
	"encoding/json"
	"fmt"

	"domaincheck/internal/service"

	"github.com/spf13/cobra"
)

type inspection struct {
	Domain string                `json:"domain"`
	NS     []string              `json:"ns"`
	MX     []service.MXRecord    `json:"mx"`
	TXT    []service.TXTRecord   `json:"txt"`
	CNAME  []service.CNAMERecord `json:"cname,omitempty"`
	Whois  *service.WhoisInfo    `json:"whois,omitempty"`
	Errors []string              `json:"errors,omitempty"`
}

func newCmdInspect(a *app) *cobra.Command {
	var withWhois bool
	cmd := &cobra.Command{
		Use:   "inspect <domain>",
		Short: "Dump what DNS and WHOIS currently say about a domain",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			domain := args[0]
			dns := service.NewDNSService(a.cfg.DNSResolver, a.cfg.DNSTimeout)
			out := inspection{Domain: domain}

			var err error
			if out.NS, err = dns.LookupNS(ctx, domain); err != nil {
				out.Errors = append(out.Errors, err.Error())
			}
			if out.MX, err = dns.LookupMX(ctx, domain); err != nil {
				out.Errors = append(out.Errors, err.Error())
			}
			out.MX = service.SortMX(out.MX)
			if out.TXT, err = dns.LookupTXT(ctx, domain); err != nil {
				out.Errors = append(out.Errors, err.Error())
			}
			if out.CNAME, err = dns.LookupCNAME(ctx, domain); err != nil {
				out.Errors = append(out.Errors, err.Error())
			}

			if withWhois {
				if out.Whois, err = service.NewWhoisService().Whois(domain); err != nil {
					out.Errors = append(out.Errors, err.Error())
				} else {
					out.Whois.Raw = ""
				}
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(out); err != nil {
				return err
			}
			if len(out.Errors) > 0 {
				return fmt.Errorf("%d lookup(s) failed", len(out.Errors))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&withWhois, "whois", true, "Include registrar and delegated nameservers from WHOIS")
	return cmd
}
